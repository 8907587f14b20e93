package permission

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

const allKey = "all"

// Service lists the assignable permission vocabulary. The set changes rarely,
// so it is cached briefly process-wide.
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

func (s *Service) All(ctx context.Context, token string) ([]model.Permission, error) {
	if v, ok := s.cache.Get(allKey); ok {
		return v.([]model.Permission), nil
	}
	var perms []model.Permission
	if err := s.client.Get(ctx, token, "/admin/permission/all", &perms); err != nil {
		return nil, errors.NewBadRequest(upstream.Message(err), err)
	}
	s.cache.SetDefault(allKey, perms)
	return perms, nil
}
