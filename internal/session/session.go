package session

import (
	"time"

	"github.com/clinicdesk/admin-console/internal/capability"
	"github.com/clinicdesk/admin-console/internal/model"
)

// Session is the single piece of cross-page shared state: the persisted
// credential, the authenticated user, and the permission set that drives
// every gated UI decision. It is owned by the Manager; consumers read it and
// mutate it only through the Manager's named operations.
type Session struct {
	ID          string             `json:"id"`
	Token       string             `json:"token"`
	User        *model.User        `json:"user,omitempty"`
	Role        model.Role         `json:"role,omitempty"`
	Permissions []model.Permission `json:"permissions,omitempty"`
	Loading     bool               `json:"loading"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Authenticated reports whether identity has been resolved to a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// Capabilities derives the capability set from the permission list.
func (s *Session) Capabilities() capability.Set {
	if s == nil {
		return capability.Set{}
	}
	return capability.FromPermissions(s.Permissions)
}

// clone returns an independent copy, so a mutation made while serving one
// request never leaks into another request holding the same session.
func (s *Session) clone() *Session {
	c := *s
	if s.User != nil {
		u := *s.User
		u.Permissions = append([]model.Permission(nil), s.User.Permissions...)
		c.User = &u
	}
	c.Permissions = append([]model.Permission(nil), s.Permissions...)
	return &c
}

// clearIdentity wipes everything the bootstrap fetch populates, keeping the
// session record itself alive.
func (s *Session) clearIdentity() {
	s.Token = ""
	s.User = nil
	s.Role = ""
	s.Permissions = nil
}
