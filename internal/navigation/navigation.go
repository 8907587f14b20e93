package navigation

import "github.com/clinicdesk/admin-console/internal/capability"

// Entry is one sidebar item. Required is nil for entries everyone sees.
type Entry struct {
	Title    string                 `json:"title"`
	URL      string                 `json:"url"`
	Icon     string                 `json:"icon"`
	Heading  string                 `json:"heading,omitempty"`
	Required *capability.Capability `json:"-"`
}

// Group is a heading with its surviving entries; a heading whose entries are
// all gated away is not emitted at all.
type Group struct {
	Heading string  `json:"heading,omitempty"`
	Entries []Entry `json:"entries"`
}

func requires(c capability.Capability) *capability.Capability {
	return &c
}

// menu is the full ordered menu before permission gating.
var menu = []Entry{
	{Title: "Dashboard", URL: "/", Icon: "dashboard"},
	{Title: "Profile", URL: "/profile", Icon: "user", Required: requires(capability.ViewProfile)},
	{Title: "Doctors", URL: "/doctors", Icon: "stethoscope", Required: requires(capability.ViewDoctors)},
	{Title: "Patients", URL: "/patients", Icon: "users", Required: requires(capability.ViewPatients)},
	{Title: "Appointments", URL: "/appointments", Icon: "ticket", Heading: "Appointments", Required: requires(capability.ViewAppointments)},
	{Title: "Total appointments", URL: "/total-appointments", Icon: "ticket", Heading: "Appointments", Required: requires(capability.ViewTotalAppointments)},
	{Title: "Rejected appointments", URL: "/rejected-appointments", Icon: "ticket-off", Required: requires(capability.ViewRejectedAppointments)},
}

// Build returns the menu entries visible to the given capability set, in
// canonical order. An entry is included iff it has no requirement or the set
// holds it; entries under a shared heading are gated independently.
func Build(set capability.Set) []Entry {
	out := make([]Entry, 0, len(menu))
	for _, e := range menu {
		if e.Required != nil && !set.Has(*e.Required) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Grouped folds consecutive entries that share a heading into groups,
// dropping headings left without entries.
func Grouped(set capability.Set) []Group {
	var groups []Group
	for _, e := range Build(set) {
		if n := len(groups); n > 0 && groups[n-1].Heading == e.Heading {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, Group{Heading: e.Heading, Entries: []Entry{e}})
	}
	return groups
}
