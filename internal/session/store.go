package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/admin-console/pkg/errors"
)

// Store persists sessions between requests. The memory store is the default;
// the Redis store lets credentials survive a console restart.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

type memoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore keeps sessions in process memory with the given TTL.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns a copy. Concurrent requests for one cookie each get their own
// session, like the Redis store's per-Get unmarshal.
func (m *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, errors.NewNotFound("session", nil)
	}
	return v.(*Session).clone(), nil
}

func (m *memoryStore) Put(_ context.Context, s *Session) error {
	m.cache.SetDefault(s.ID, s.clone())
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

func (m *memoryStore) Close() error {
	m.cache.Flush()
	return nil
}
