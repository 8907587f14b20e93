package rejected

import (
	"context"
	"net/url"
	"sync"

	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/query"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Stage is the reassignment flow's state. Confirmation is only reachable from
// SlotChosen, which makes "confirm needs both a doctor and a slot" a
// structural property rather than a scattered boolean check.
type Stage int

const (
	StageNoDoctor Stage = iota
	StageDoctorChosen
	StageSlotsReady
	StageSlotChosen
)

func (s Stage) String() string {
	switch s {
	case StageNoDoctor:
		return "no_doctor"
	case StageDoctorChosen:
		return "doctor_chosen"
	case StageSlotsReady:
		return "slots_ready"
	case StageSlotChosen:
		return "slot_chosen"
	}
	return "unknown"
}

type SelectedSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Reassigner drives the two-stage dependent lookup for moving a rejected
// appointment to another doctor: stage 1 loads candidate doctors sharing the
// original doctor's speciality, stage 2 loads the chosen doctor's time slots.
// The slot resource stays parked on an empty endpoint until a doctor is
// chosen, so no slot fetch can fire early.
type Reassigner struct {
	mu          sync.Mutex
	client      *upstream.Client
	token       string
	appointment model.Appointment
	doctors     *query.Resource[[]model.DoctorSummary]
	slots       *query.Resource[[]model.DaySlots]
	doctorID    string
	slot        *SelectedSlot
}

func newReassigner(ctx context.Context, client *upstream.Client, token string, appt model.Appointment) *Reassigner {
	r := &Reassigner{
		client:      client,
		token:       token,
		appointment: appt,
		doctors:     query.NewResource[[]model.DoctorSummary](client, token),
		slots:       query.NewResource[[]model.DaySlots](client, token),
	}

	speciality := ""
	if appt.Doctor != nil {
		speciality = appt.Doctor.Speciality
	}
	r.doctors.SetEndpoint(ctx, "/admin/rejected-appointments/speciality?speciality="+url.QueryEscape(speciality))
	return r
}

func (r *Reassigner) Appointment() model.Appointment {
	return r.appointment
}

func (r *Reassigner) Doctors() query.Snapshot[[]model.DoctorSummary] {
	return r.doctors.Snapshot()
}

func (r *Reassigner) Slots() query.Snapshot[[]model.DaySlots] {
	return r.slots.Snapshot()
}

// ChooseDoctor selects a candidate and triggers the dependent slot fetch.
// Any previously chosen slot is discarded since it belonged to the old
// doctor's calendar.
func (r *Reassigner) ChooseDoctor(ctx context.Context, doctorID string) error {
	if doctorID == "" {
		return errors.NewValidation("no doctor selected")
	}
	r.mu.Lock()
	r.doctorID = doctorID
	r.slot = nil
	r.mu.Unlock()

	r.slots.SetEndpoint(ctx, "/admin/rejected-appointments/timeslot/"+doctorID)
	return nil
}

// ChooseSlot picks a concrete date/time. The slot must exist in the loaded
// calendar and still be available; booked slots are rejected before any
// network traffic.
func (r *Reassigner) ChooseSlot(date, timeOfDay string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doctorID == "" {
		return errors.NewValidation("select a doctor first")
	}

	snap := r.slots.Snapshot()
	if !snap.HasData {
		return errors.NewValidation("time slots are not loaded yet")
	}
	for _, day := range snap.Data {
		if day.Date != date {
			continue
		}
		for _, slot := range day.Slots {
			if slot.Time != timeOfDay {
				continue
			}
			if !slot.Available {
				return errors.NewValidation("time slot is already booked")
			}
			r.slot = &SelectedSlot{Date: date, Time: timeOfDay}
			return nil
		}
	}
	return errors.NewValidation("time slot not found")
}

// SelectedDoctor returns the chosen candidate's id, empty before stage 1.
func (r *Reassigner) SelectedDoctor() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doctorID
}

// Selection returns a copy of the chosen slot, nil before stage 2 completes.
func (r *Reassigner) Selection() *SelectedSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slot == nil {
		return nil
	}
	s := *r.slot
	return &s
}

// Stage derives the current flow state.
func (r *Reassigner) Stage() Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stageLocked()
}

func (r *Reassigner) stageLocked() Stage {
	if r.doctorID == "" {
		return StageNoDoctor
	}
	if r.slot != nil {
		return StageSlotChosen
	}
	if r.slots.Snapshot().HasData {
		return StageSlotsReady
	}
	return StageDoctorChosen
}

func (r *Reassigner) CanConfirm() bool {
	return r.Stage() == StageSlotChosen
}

// Confirm submits the reassignment. On success (201) the appointment has
// moved out of the rejected set; the owning list is responsible for dropping
// it or refetching.
func (r *Reassigner) Confirm(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.stageLocked() != StageSlotChosen {
		r.mu.Unlock()
		return "", errors.NewValidation("select a doctor and an available time slot first")
	}
	req := model.ReassignRequest{
		AppointmentID: r.appointment.ID,
		NewDoctorID:   r.doctorID,
		Date:          r.slot.Date,
		StartTime:     r.slot.Time,
	}
	if r.appointment.Doctor != nil {
		req.OldDoctorID = r.appointment.Doctor.ID
	} else {
		req.OldDoctorID = r.appointment.DoctorID
	}
	r.mu.Unlock()

	var resp struct {
		Message string `json:"message"`
	}
	err := r.client.Post(ctx, r.token, "/admin/rejected-appointments/reassign", req, &resp)
	if err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}
	return resp.Message, nil
}
