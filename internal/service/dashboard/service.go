package dashboard

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Service serves the role-scoped dashboard statistics. The upstream scopes
// the numbers by the caller's token, so the cache is keyed per user.
type Service struct {
	client *upstream.Client
	cache  *gocache.Cache
}

func NewService(client *upstream.Client, ttl time.Duration) *Service {
	return &Service{
		client: client,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (s *Service) Stats(ctx context.Context, token, userID string) (*model.DashboardStats, error) {
	if v, ok := s.cache.Get(userID); ok {
		return v.(*model.DashboardStats), nil
	}
	var stats model.DashboardStats
	if err := s.client.Get(ctx, token, "/admin/dashboard", &stats); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	s.cache.SetDefault(userID, &stats)
	return &stats, nil
}
