package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "PENDING"
	AppointmentStatusAccepted   AppointmentStatus = "ACCEPTED"
	AppointmentStatusRejected   AppointmentStatus = "REJECTED"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusReassigned AppointmentStatus = "REASSIGNED"
)

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patientId"`
	DoctorID  string            `json:"doctorId"`
	Date      string            `json:"date"`
	StartTime string            `json:"startTime"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Patient   *Patient          `json:"patient,omitempty"`
	Doctor    *Doctor           `json:"doctor,omitempty"`
}

// UpdateAppointmentStatusRequest carries the user-picked status. REASSIGNED is
// deliberately absent from the picklist: it only arises as a side effect of
// the reassignment flow.
type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=PENDING ACCEPTED REJECTED COMPLETED"`
}

type DeleteAppointmentsRequest struct {
	AppointmentIDs []string `json:"appointmentsId" binding:"required,min=1,dive,required"`
}

type ReassignRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	OldDoctorID   string `json:"oldDoctorId" binding:"required"`
	NewDoctorID   string `json:"newDoctorId" binding:"required"`
	Date          string `json:"date" binding:"required"`
	StartTime     string `json:"startTime" binding:"required"`
}

// Slot is one bookable time within a day; Available is false once booked.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DaySlots is the per-date slot listing returned by the timeslot endpoint.
type DaySlots struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Slots []Slot `json:"slots"`
}

type AppointmentStats struct {
	TotalAppointments    int `json:"totalAppointments"`
	PendingAppointments  int `json:"pendingAppointments"`
	AcceptedAppointments int `json:"acceptedAppointments"`
	RejectedAppointments int `json:"rejectedAppointments"`
}
