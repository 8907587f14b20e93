package capability

import "github.com/clinicdesk/admin-console/internal/model"

// Capability enumerates the named permissions the upstream can grant. Routes,
// navigation entries, and action buttons are gated on these rather than raw
// permission strings.
type Capability int

const (
	ViewProfile Capability = iota
	ViewDoctors
	ViewPatients
	ViewAppointments
	ViewTotalAppointments
	ViewRejectedAppointments
)

var wireNames = map[Capability]string{
	ViewProfile:              "VIEW_PROFILE",
	ViewDoctors:              "VIEW_DOCTORS",
	ViewPatients:             "VIEW_PATIENTS",
	ViewAppointments:         "VIEW_APPOINTMENTS",
	ViewTotalAppointments:    "VIEW_TOTAL_APPOINTMENTS",
	ViewRejectedAppointments: "VIEW_REJECTED_APPOINTMENTS",
}

var byWireName = func() map[string]Capability {
	m := make(map[string]Capability, len(wireNames))
	for c, n := range wireNames {
		m[n] = c
	}
	return m
}()

func (c Capability) String() string {
	if n, ok := wireNames[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// FromName maps a permission's stable machine key onto a capability.
func FromName(name string) (Capability, bool) {
	c, ok := byWireName[name]
	return c, ok
}

// Set is an unordered capability set. Membership is tested by capability, not
// by string comparison at call sites.
type Set map[Capability]struct{}

// FromPermissions builds a set from the profile's permission list. Permission
// names the console does not know are ignored rather than rejected, so the
// upstream can grow its vocabulary without breaking older consoles.
func FromPermissions(perms []model.Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		if c, ok := FromName(p.Name); ok {
			s[c] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// All lists every known capability in declaration order.
func All() []Capability {
	return []Capability{
		ViewProfile,
		ViewDoctors,
		ViewPatients,
		ViewAppointments,
		ViewTotalAppointments,
		ViewRejectedAppointments,
	}
}

func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, c := range All() {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}
