package query

import (
	"context"
	"sync"

	"github.com/clinicdesk/admin-console/internal/upstream"
)

// Fetcher is the slice of the upstream client a resource needs.
type Fetcher interface {
	Get(ctx context.Context, token, path string, out interface{}) error
}

// Snapshot is the observable state of a resource. Err holds a human-readable
// message; Data keeps its last good value across failures so consumers never
// flash empty on a transient error.
type Snapshot[T any] struct {
	Data    T
	HasData bool
	Loading bool
	Err     string
}

// Resource tracks loading/error/data state for a single endpoint. An empty
// endpoint means "prerequisite not chosen yet": no request is made and the
// data stays unset. Changing the endpoint string triggers a refetch; each
// fetch carries a generation token and a response belonging to a superseded
// generation is discarded, so out-of-order completions never clobber newer
// state.
type Resource[T any] struct {
	mu       sync.Mutex
	client   Fetcher
	token    string
	endpoint string
	gen      uint64
	snap     Snapshot[T]
}

func NewResource[T any](client Fetcher, token string) *Resource[T] {
	return &Resource[T]{client: client, token: token}
}

// SetEndpoint points the resource at a new endpoint and fetches it. Setting
// the same value again is a no-op; setting "" parks the resource without
// clearing already-loaded data.
func (r *Resource[T]) SetEndpoint(ctx context.Context, endpoint string) {
	r.mu.Lock()
	if endpoint == r.endpoint {
		r.mu.Unlock()
		return
	}
	r.endpoint = endpoint
	if endpoint == "" {
		// Invalidate any in-flight fetch for the old endpoint.
		r.gen++
		r.snap.Loading = false
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.fetch(ctx)
}

// Refresh refetches the current endpoint, if one is set.
func (r *Resource[T]) Refresh(ctx context.Context) {
	r.mu.Lock()
	if r.endpoint == "" {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.fetch(ctx)
}

func (r *Resource[T]) fetch(ctx context.Context) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	endpoint := r.endpoint
	r.snap.Loading = true
	r.snap.Err = ""
	r.mu.Unlock()

	var data T
	err := r.client.Get(ctx, r.token, endpoint, &data)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		// A newer fetch superseded this one while it was in flight.
		return
	}
	r.snap.Loading = false
	if err != nil {
		r.snap.Err = upstream.Message(err)
		return
	}
	r.snap.Data = data
	r.snap.HasData = true
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

func (r *Resource[T]) Endpoint() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endpoint
}
