package patient

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/admin-console/internal/listview"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Service orchestrates the patients page. Patients are read-mostly here: the
// only write is the bulk delete.
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

func (s *Service) NewListController(token string) *listview.Controller[model.Patient] {
	return listview.NewController(s.client, token, "/admin/patients", s.defaultLimit, func(p model.Patient) string {
		return p.ID
	})
}

func (s *Service) Get(ctx context.Context, token, id string) (*model.Patient, error) {
	var p model.Patient
	if err := s.client.Get(ctx, token, "/admin/patients/"+id, &p); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, token string, list *listview.Controller[model.Patient], ids []string) (string, error) {
	if len(ids) == 0 {
		return "", errors.NewValidation("no patients selected")
	}

	var resp struct {
		Message string `json:"message"`
	}
	err := s.client.Delete(ctx, token, "/admin/patients", model.DeletePatientsRequest{PatientIDs: ids}, &resp)
	if err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}

	list.RemoveByID(ids)
	return resp.Message, nil
}

// Stats returns the patients headline numbers, cached briefly per user to
// keep the cards cheap across page navigations.
func (s *Service) Stats(ctx context.Context, token, userID string) (*model.PatientStats, error) {
	if v, ok := s.stats.Get(userID); ok {
		return v.(*model.PatientStats), nil
	}
	var stats model.PatientStats
	if err := s.client.Get(ctx, token, "/admin/patients/stats", &stats); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	s.stats.SetDefault(userID, &stats)
	return &stats, nil
}
