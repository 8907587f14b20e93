package appointment

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
	"github.com/clinicdesk/admin-console/pkg/logger"
)

func newTestService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	client := upstream.NewClient(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, log)
	return NewService(client, 10, time.Minute)
}

func listBody(appts []model.Appointment, total int) string {
	raw, _ := json.Marshal(map[string]interface{}{
		"data": appts,
		"pagination": model.Pagination{
			CurrentPage: 1,
			TotalPages:  1,
			TotalItems:  total,
		},
	})
	return string(raw)
}

func TestChangeStatusPatchesOneRecord(t *testing.T) {
	appts := []model.Appointment{
		{ID: "ap-1", Status: model.AppointmentStatusPending},
		{ID: "ap-2", Status: model.AppointmentStatusPending},
		{ID: "ap-3", Status: model.AppointmentStatusAccepted},
	}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/admin/appointments" && r.Method == http.MethodGet:
			w.Write([]byte(listBody(appts, 3)))
		case r.URL.Path == "/admin/appointments/status/ap-2" && r.Method == http.MethodPut:
			var req model.UpdateAppointmentStatusRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": "status updated",
				"data":    map[string]string{"status": string(req.Status)},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	list := svc.NewListController("tok")
	require.NoError(t, list.Fetch(context.Background()))

	err := svc.ChangeStatus(context.Background(), "tok", list, "ap-2", model.AppointmentStatusAccepted)
	require.NoError(t, err)

	got := list.Items()
	// Order and every other record are untouched; only ap-2 changed.
	assert.Equal(t, []string{"ap-1", "ap-2", "ap-3"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, model.AppointmentStatusPending, got[0].Status)
	assert.Equal(t, model.AppointmentStatusAccepted, got[1].Status)
	assert.Equal(t, model.AppointmentStatusAccepted, got[2].Status)
}

func TestDeleteUsesSingularEndpoint(t *testing.T) {
	var deletePath string
	var gotBody map[string][]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(listBody([]model.Appointment{{ID: "ap-1"}, {ID: "ap-2"}}, 2)))
		case http.MethodDelete:
			deletePath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{"message":"appointments deleted"}`))
		}
	})

	list := svc.NewListController("tok")
	require.NoError(t, list.Fetch(context.Background()))

	msg, err := svc.Delete(context.Background(), "tok", list, []string{"ap-1"})
	require.NoError(t, err)
	assert.Equal(t, "appointments deleted", msg)
	assert.Equal(t, "/admin/appointment", deletePath)
	assert.Equal(t, []string{"ap-1"}, gotBody["appointmentsId"])

	// The local list was reconciled without a refetch.
	require.Len(t, list.Items(), 1)
	assert.Equal(t, "ap-2", list.Items()[0].ID)
	assert.Equal(t, 1, list.Pagination().TotalItems)
}

func TestStatsCachedPerUser(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(model.AppointmentStats{TotalAppointments: 42})
	})

	for i := 0; i < 3; i++ {
		stats, err := svc.Stats(context.Background(), "tok", "user-1")
		require.NoError(t, err)
		assert.Equal(t, 42, stats.TotalAppointments)
	}
	assert.Equal(t, 1, calls)

	_, err := svc.Stats(context.Background(), "tok", "user-2")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
