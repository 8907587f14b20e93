package rejected

import (
	"context"

	"github.com/clinicdesk/admin-console/internal/listview"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Service orchestrates the rejected-appointments page: the paginated listing
// (whose pagination carries the unfiltered totalCount), bulk deletes, and the
// two-stage reassignment flow.
type Service struct {
	client       *upstream.Client
	defaultLimit int
}

func NewService(client *upstream.Client, defaultLimit int) *Service {
	return &Service{client: client, defaultLimit: defaultLimit}
}

func (s *Service) NewListController(token string) *listview.Controller[model.Appointment] {
	return listview.NewController(s.client, token, "/admin/rejected-appointments", s.defaultLimit, func(a model.Appointment) string {
		return a.ID
	})
}

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

// NewReassigner starts the reassignment flow for one rejected appointment.
func (s *Service) NewReassigner(ctx context.Context, token string, appt model.Appointment) *Reassigner {
	return newReassigner(ctx, s.client, token, appt)
}
