package availability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
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

func newTestService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	client := upstream.NewClient(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, log)
	return NewService(client)
}

func window() model.AvailabilityWindow {
	return model.AvailabilityWindow{
		StartTime:      "09:00",
		EndTime:        "17:00",
		BreakStartTime: "13:00",
		BreakEndTime:   "14:00",
	}
}

func TestAddRoundTripsWindow(t *testing.T) {
	var gotBody map[string]interface{}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/doctors/availability", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []model.Availability{{
				ID:             "av-1",
				DoctorID:       "doc-1",
				Day:            "Wednesday",
				StartTime:      "09:00",
				EndTime:        "17:00",
				BreakStartTime: "13:00",
				BreakEndTime:   "14:00",
			}},
		})
	})

	req := model.AddAvailabilityRequest{Days: []string{"Wednesday"}, AvailabilityWindow: window()}
	added, err := svc.Add(context.Background(), "tok", "doc-1", req, nil)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", gotBody["doctorId"])
	assert.Equal(t, "13:00", gotBody["breakStartTime"])
	assert.Equal(t, "14:00", gotBody["breakEndTime"])

	require.Len(t, added, 1)
	assert.Equal(t, "Wednesday", added[0].Day)
	assert.Equal(t, "09:00", added[0].StartTime)
	assert.Equal(t, "17:00", added[0].EndTime)
}

func TestAddValidatesBeforeNetwork(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("validation failures must not reach the upstream")
	})

	existing := []model.Availability{{ID: "av-0", Day: "Monday"}}

	tests := []struct {
		name string
		days []string
	}{
		{"no days selected", nil},
		{"unknown weekday", []string{"Wodinsday"}},
		{"duplicate day in selection", []string{"Tuesday", "Tuesday"}},
		{"day already has a window", []string{"Monday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := model.AddAvailabilityRequest{Days: tt.days, AvailabilityWindow: window()}
			_, err := svc.Add(context.Background(), "tok", "doc-1", req, existing)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestMergeKeepsCanonicalOrder(t *testing.T) {
	existing := []model.Availability{
		{ID: "av-f", Day: "Friday"},
		{ID: "av-m", Day: "Monday", StartTime: "08:00"},
		{ID: "av-t", Day: "Tuesday"},
	}
	added := []model.Availability{{ID: "av-w", Day: "Wednesday"}}
	edited := &model.Availability{ID: "av-m", Day: "Monday", StartTime: "10:00"}

	out := Merge(existing, added, edited, []string{"av-t"})

	require.Len(t, out, 3)
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, []string{out[0].Day, out[1].Day, out[2].Day})
	// The edit replaced the window, not the identity.
	assert.Equal(t, "10:00", out[0].StartTime)
	assert.Equal(t, "av-m", out[0].ID)
}

func TestDeleteBatchesIDs(t *testing.T) {
	var gotBody map[string][]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"message":"availability deleted"}`))
	})

	msg, err := svc.Delete(context.Background(), "tok", []string{"av-1", "av-2"})
	require.NoError(t, err)
	assert.Equal(t, "availability deleted", msg)
	assert.Equal(t, []string{"av-1", "av-2"}, gotBody["availabilityId"])
}
