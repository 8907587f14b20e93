package model

// User is the authenticated profile returned by the current-user endpoint.
type User struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Image       string       `json:"image,omitempty"`
	Designation string       `json:"designation,omitempty"`
	Speciality  string       `json:"speciality,omitempty"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Designation string `json:"designation" binding:"required"`
	Speciality  string `json:"speciality" binding:"required"`
	Description string `json:"description"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ProfilePatch declares exactly which profile fields a mutation may touch.
// Nil fields are left as they are; Apply is a structural merge, never a
// blind overwrite.
type ProfilePatch struct {
	Name        *string `json:"name,omitempty"`
	Designation *string `json:"designation,omitempty"`
	Speciality  *string `json:"speciality,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p ProfilePatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Designation != nil {
		u.Designation = *p.Designation
	}
	if p.Speciality != nil {
		u.Speciality = *p.Speciality
	}
	if p.Description != nil {
		u.Description = *p.Description
	}
}

// IsZero reports whether the patch names no fields at all.
func (p ProfilePatch) IsZero() bool {
	return p.Name == nil && p.Designation == nil && p.Speciality == nil && p.Description == nil
}
