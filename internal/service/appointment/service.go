package appointment

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/admin-console/internal/listview"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Service orchestrates the appointments pages (the doctor-scoped listing and
// the admin-wide one share the same endpoint; the upstream scopes by token).
type Service struct {
	client       *upstream.Client
	defaultLimit int
	stats        *gocache.Cache
}

func NewService(client *upstream.Client, defaultLimit int, statsTTL time.Duration) *Service {
	return &Service{
		client:       client,
		defaultLimit: defaultLimit,
		stats:        gocache.New(statsTTL, 2*statsTTL),
	}
}

func (s *Service) NewListController(token string) *listview.Controller[model.Appointment] {
	return listview.NewController(s.client, token, "/admin/appointments", s.defaultLimit, func(a model.Appointment) string {
		return a.ID
	})
}

// ChangeStatus applies a user-picked status. The request type's picklist
// excludes REASSIGNED, which only arises through the reassignment flow. On
// success only the status of the matching record changes; ordering and all
// other fields stay as they were.
func (s *Service) ChangeStatus(ctx context.Context, token string, list *listview.Controller[model.Appointment], id string, status model.AppointmentStatus) error {
	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Status model.AppointmentStatus `json:"status"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/admin/appointments/status/%s", id)
	err := s.client.Put(ctx, token, path, model.UpdateAppointmentStatusRequest{Status: status}, &resp)
	if err != nil {
		return errors.NewBadRequest(upstream.Message(err), err)
	}

	list.PatchByID(id, func(a *model.Appointment) {
		a.Status = resp.Data.Status
	})
	return nil
}

// Delete batches all ids into one request. The delete endpoint is singular
// ("/admin/appointment") in the upstream contract.
func (s *Service) Delete(ctx context.Context, token string, list *listview.Controller[model.Appointment], ids []string) (string, error) {
	if len(ids) == 0 {
		return "", errors.NewValidation("no appointments selected")
	}

	var resp struct {
		Message string `json:"message"`
	}
	err := s.client.Delete(ctx, token, "/admin/appointment", model.DeleteAppointmentsRequest{AppointmentIDs: ids}, &resp)
	if err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}

	list.RemoveByID(ids)
	return resp.Message, nil
}

func (s *Service) Stats(ctx context.Context, token, userID string) (*model.AppointmentStats, error) {
	if v, ok := s.stats.Get(userID); ok {
		return v.(*model.AppointmentStats), nil
	}
	var stats model.AppointmentStats
	if err := s.client.Get(ctx, token, "/admin/appointments/stats", &stats); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	s.stats.SetDefault(userID, &stats)
	return &stats, nil
}
