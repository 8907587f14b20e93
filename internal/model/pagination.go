package model

// Pagination mirrors the upstream pagination envelope. TotalCount is only
// reported by the rejected-appointments listing (unfiltered total) and stays
// zero elsewhere.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	TotalCount      int  `json:"totalCount,omitempty"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

type DashboardStats struct {
	TotalDoctors         int `json:"totalDoctors"`
	TotalPatients        int `json:"totalPatients"`
	TotalAppointments    int `json:"totalAppointments"`
	PendingAppointments  int `json:"pendingAppointments"`
	TodaysAppointments   int `json:"todaysAppointments"`
	RejectedAppointments int `json:"rejectedAppointments"`
}
