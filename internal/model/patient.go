package model

import "time"

// Patient is read-mostly from the console's perspective: the only write
// against it is the bulk delete.
type Patient struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Image        string        `json:"image,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	Appointments []Appointment `json:"appointments,omitempty"`
}

type DeletePatientsRequest struct {
	PatientIDs []string `json:"patientsId" binding:"required,min=1,dive,required"`
}

type PatientStats struct {
	TotalPatients int `json:"totalPatients"`
	NewThisMonth  int `json:"newThisMonth"`
}
