package state

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Registry holds per-session page state: the live list controllers and
// in-progress reassignment flows. Unlike the credential session this state
// cannot be serialized, so each console replica keeps its own copy and
// rebuilds it on demand with a fetch.
type Registry struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{cache: gocache.New(ttl, 2*ttl)}
}

func key(sessionID, page string) string {
	return sessionID + "|" + page
}

// GetOrCreate returns the state for (session, page), constructing it once if
// absent. Each access refreshes the TTL.
func (r *Registry) GetOrCreate(sessionID, page string, create func() interface{}) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(key(sessionID, page)); ok {
		r.cache.SetDefault(key(sessionID, page), v)
		return v
	}
	v := create()
	r.cache.SetDefault(key(sessionID, page), v)
	return v
}

func (r *Registry) Get(sessionID, page string) (interface{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Get(key(sessionID, page))
}

func (r *Registry) Delete(sessionID, page string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(key(sessionID, page))
}

// DropSession discards all page state belonging to a session, used on logout.
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := sessionID + "|"
	for k := range r.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			r.cache.Delete(k)
		}
	}
}
