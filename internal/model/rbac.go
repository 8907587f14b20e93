package model

// Permission is a named capability controlling visibility of a route,
// navigation entry, or action button. Name is the stable machine key
// (e.g. "VIEW_DOCTORS"); Label is display text.
type Permission struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDoctor Role = "DOCTOR"
)
