package rejected

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/admin-console/internal/config"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	pkgerrors "github.com/clinicdesk/admin-console/pkg/errors"
	"github.com/clinicdesk/admin-console/pkg/logger"
)

type upstreamStub struct {
	mu       sync.Mutex
	paths    []string
	reassign map[string]interface{}
}

func (u *upstreamStub) record(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paths = append(u.paths, path)
}

func (u *upstreamStub) requested(path string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, p := range u.paths {
		if p == path {
			return true
		}
	}
	return false
}

func newFlowService(t *testing.T) (*Service, *upstreamStub) {
	t.Helper()
	stub := &upstreamStub{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.record(r.URL.Path)
		switch r.URL.Path {
		case "/admin/rejected-appointments/speciality":
			json.NewEncoder(w).Encode([]model.DoctorSummary{
				{ID: "doc-2", Name: "Dr Two", Speciality: "Cardiology"},
				{ID: "doc-3", Name: "Dr Three", Speciality: "Cardiology"},
			})
		case "/admin/rejected-appointments/timeslot/doc-2":
			json.NewEncoder(w).Encode([]model.DaySlots{
				{Date: "2026-09-01", Day: "Tuesday", Slots: []model.Slot{
					{Time: "09:00", Available: true},
					{Time: "09:30", Available: false},
				}},
			})
		case "/admin/rejected-appointments/reassign":
			var req model.ReassignRequest
			json.NewDecoder(r.Body).Decode(&req)
			stub.mu.Lock()
			stub.reassign = map[string]interface{}{
				"appointmentId": req.AppointmentID,
				"oldDoctorId":   req.OldDoctorID,
				"newDoctorId":   req.NewDoctorID,
				"date":          req.Date,
				"startTime":     req.StartTime,
			}
			stub.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"appointment reassigned"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	client := upstream.NewClient(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, log)
	return NewService(client, 10), stub
}

func rejectedAppointment() model.Appointment {
	return model.Appointment{
		ID:       "appt-1",
		DoctorID: "doc-1",
		Status:   model.AppointmentStatusRejected,
		Doctor:   &model.Doctor{ID: "doc-1", Speciality: "Cardiology"},
	}
}

func TestFlowStartsWithCandidatesOnly(t *testing.T) {
	svc, stub := newFlowService(t)
	r := svc.NewReassigner(context.Background(), "tok", rejectedAppointment())

	assert.Equal(t, StageNoDoctor, r.Stage())
	assert.False(t, r.CanConfirm())

	doctors := r.Doctors()
	require.True(t, doctors.HasData)
	assert.Len(t, doctors.Data, 2)

	// No doctor chosen yet, so no slot endpoint has been touched.
	assert.False(t, stub.requested("/admin/rejected-appointments/timeslot/doc-2"))
	assert.False(t, r.Slots().HasData)
}

func TestChoosingDoctorLoadsSlots(t *testing.T) {
	svc, _ := newFlowService(t)
	r := svc.NewReassigner(context.Background(), "tok", rejectedAppointment())

	require.NoError(t, r.ChooseDoctor(context.Background(), "doc-2"))
	assert.Equal(t, StageSlotsReady, r.Stage())

	slots := r.Slots()
	require.True(t, slots.HasData)
	require.Len(t, slots.Data, 1)
	assert.Equal(t, "2026-09-01", slots.Data[0].Date)
}

func TestSlotValidation(t *testing.T) {
	svc, _ := newFlowService(t)
	r := svc.NewReassigner(context.Background(), "tok", rejectedAppointment())

	// Slots cannot be chosen before a doctor.
	err := r.ChooseSlot("2026-09-01", "09:00")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, r.ChooseDoctor(context.Background(), "doc-2"))

	// A booked slot is rejected locally.
	err = r.ChooseSlot("2026-09-01", "09:30")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	// An unknown slot is rejected too.
	err = r.ChooseSlot("2026-09-01", "23:00")
	require.Error(t, err)

	require.NoError(t, r.ChooseSlot("2026-09-01", "09:00"))
	assert.Equal(t, StageSlotChosen, r.Stage())
	assert.True(t, r.CanConfirm())
}

func TestConfirmRequiresChosenSlot(t *testing.T) {
	svc, stub := newFlowService(t)
	r := svc.NewReassigner(context.Background(), "tok", rejectedAppointment())

	_, err := r.Confirm(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, stub.requested("/admin/rejected-appointments/reassign"))
}

func TestConfirmSubmitsSelection(t *testing.T) {
	svc, stub := newFlowService(t)
	r := svc.NewReassigner(context.Background(), "tok", rejectedAppointment())

	require.NoError(t, r.ChooseDoctor(context.Background(), "doc-2"))
	require.NoError(t, r.ChooseSlot("2026-09-01", "09:00"))

	msg, err := r.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "appointment reassigned", msg)
	assert.Equal(t, map[string]interface{}{
		"appointmentId": "appt-1",
		"oldDoctorId":   "doc-1",
		"newDoctorId":   "doc-2",
		"date":          "2026-09-01",
		"startTime":     "09:00",
	}, stub.reassign)
}

func TestChangingDoctorDiscardsSlot(t *testing.T) {
	svc, _ := newFlowService(t)
	r := svc.NewReassigner(context.Background(), "tok", rejectedAppointment())

	require.NoError(t, r.ChooseDoctor(context.Background(), "doc-2"))
	require.NoError(t, r.ChooseSlot("2026-09-01", "09:00"))
	require.True(t, r.CanConfirm())

	// Picking another doctor invalidates the old calendar's slot.
	require.NoError(t, r.ChooseDoctor(context.Background(), "doc-3"))
	assert.Nil(t, r.Selection())
	assert.False(t, r.CanConfirm())
}
