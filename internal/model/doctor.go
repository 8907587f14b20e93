package model

import "time"

type DoctorStatus string

const (
	DoctorStatusActive   DoctorStatus = "ACTIVE"
	DoctorStatusInactive DoctorStatus = "INACTIVE"
)

// Doctor is the full record returned by the doctor detail endpoint. List
// endpoints return the same shape with the nested collections omitted.
type Doctor struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Image        string             `json:"image,omitempty"`
	Designation  string             `json:"designation,omitempty"`
	Speciality   string             `json:"speciality,omitempty"`
	Description  string             `json:"description,omitempty"`
	Status       DoctorStatus       `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	Availability []Availability     `json:"availability,omitempty"`
	Appointments []Appointment      `json:"appointments,omitempty"`
	Permissions  []DoctorPermission `json:"doctorPermissions,omitempty"`
}

// DoctorSummary is the reduced shape used by the reassignment candidate list.
type DoctorSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Image      string `json:"image,omitempty"`
	Speciality string `json:"speciality,omitempty"`
}

// Speciality is one entry of the fixed speciality vocabulary used for the
// doctor filter and the registration form.
type Speciality struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Specialities is the filter vocabulary, in display order. Values are the
// wire form the upstream list endpoint accepts for its speciality parameter.
var Specialities = []Speciality{
	{Label: "Cardiology", Value: "CARDIOLOGY"},
	{Label: "Dermatology", Value: "DERMATOLOGY"},
	{Label: "Endocrinology", Value: "ENDOCRINOLOGY"},
	{Label: "Gastroenterology", Value: "GASTROENTEROLOGY"},
	{Label: "General Medicine", Value: "GENERAL_MEDICINE"},
	{Label: "Gynecology", Value: "GYNECOLOGY"},
	{Label: "Neurology", Value: "NEUROLOGY"},
	{Label: "Oncology", Value: "ONCOLOGY"},
	{Label: "Ophthalmology", Value: "OPHTHALMOLOGY"},
	{Label: "Orthopedics", Value: "ORTHOPEDICS"},
	{Label: "Pediatrics", Value: "PEDIATRICS"},
	{Label: "Psychiatry", Value: "PSYCHIATRY"},
	{Label: "Pulmonology", Value: "PULMONOLOGY"},
	{Label: "Radiology", Value: "RADIOLOGY"},
	{Label: "Urology", Value: "UROLOGY"},
}

type DoctorPermission struct {
	ID           string     `json:"id"`
	DoctorID     string     `json:"doctorId"`
	PermissionID string     `json:"permissionId"`
	Permission   Permission `json:"permission"`
}

type UpdateDoctorStatusRequest struct {
	Status DoctorStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

type DeleteDoctorsRequest struct {
	DoctorIDs []string `json:"doctorsId" binding:"required,min=1,dive,required"`
}

type AssignPermissionsRequest struct {
	PermissionIDs []string `json:"permissionsId" binding:"required,dive,required"`
}
