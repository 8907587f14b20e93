package listview

import (
	"context"
	"sync"

	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/query"
	"github.com/clinicdesk/admin-console/internal/upstream"
)

// Controller owns one page's list state: the current parameter set, the
// fetched items, and the server-reported pagination. The item slice is
// replaced wholesale on fetch and patched in place on single-item mutations,
// so a successful mutation never costs a round-trip.
type Controller[T any] struct {
	mu         sync.Mutex
	client     query.Fetcher
	token      string
	base       string
	id         func(T) string
	params     Params
	items      []T
	pagination model.Pagination
	loading    bool
	fetchErr   string
	gen        uint64
}

func NewController[T any](client query.Fetcher, token, base string, defaultLimit int, id func(T) string) *Controller[T] {
	return &Controller[T]{
		client: client,
		token:  token,
		base:   base,
		id:     id,
		params: Params{Page: 1, Limit: defaultLimit},
		pagination: model.Pagination{
			CurrentPage:  1,
			TotalPages:   1,
			ItemsPerPage: defaultLimit,
		},
	}
}

// SetParams installs the parameter set parsed from the page URL. A filter
// change always restarts from page 1; a bare page change keeps every filter.
func (c *Controller[T]) SetParams(p Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Limit <= 0 {
		p.Limit = c.params.Limit
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if !p.sameFilters(c.params) {
		p.Page = 1
	}
	c.params = p
}

// SetFilter updates one filter and resets to the first page. "all" clears
// the constraint.
func (c *Controller[T]) SetFilter(kind, value string) {
	if value == "all" {
		value = ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case "search":
		c.params.Search = value
	case "status":
		c.params.Status = value
	case "speciality":
		c.params.Speciality = value
	default:
		return
	}
	c.params.Page = 1
}

func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.params.Page = page
}

// Fetch loads the current page from the upstream, replacing the list
// wholesale and reconciling every pagination field from the response. When
// the server answers with a different current page than requested (the
// requested page no longer exists after deletes), the local page snaps to
// the server's value. A failed fetch keeps the previous items visible and
// records the error instead.
func (c *Controller[T]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	endpoint := c.base + "?" + c.params.Encode()
	c.loading = true
	c.fetchErr = ""
	c.mu.Unlock()

	var envelope upstream.ListEnvelope[T]
	err := c.client.Get(ctx, c.token, endpoint, &envelope)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.loading = false
	if err != nil {
		c.fetchErr = upstream.Message(err)
		return err
	}

	c.items = envelope.Data
	pg := envelope.Pagination
	if pg.CurrentPage < 1 {
		pg.CurrentPage = 1
	}
	if pg.TotalPages < 1 {
		pg.TotalPages = 1
	}
	pg.ItemsPerPage = c.params.Limit
	c.pagination = pg
	c.params.Page = pg.CurrentPage
	return nil
}

// RemoveByID drops exactly the given ids from the local list and recomputes
// the pagination locally: totalItems shrinks by the removed count and
// totalPages is ceil(totalItems/itemsPerPage), saving a refetch after a
// delete. It returns how many items were removed from the visible page.
func (c *Controller[T]) RemoveByID(ids []string) int {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if _, gone := idSet[c.id(item)]; gone {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept

	c.pagination.TotalItems -= len(ids)
	if c.pagination.TotalItems < 0 {
		c.pagination.TotalItems = 0
	}
	if c.pagination.TotalCount > 0 {
		c.pagination.TotalCount -= len(ids)
		if c.pagination.TotalCount < 0 {
			c.pagination.TotalCount = 0
		}
	}
	c.pagination.TotalPages = ceilDiv(c.pagination.TotalItems, c.params.Limit)
	if c.pagination.TotalPages < 1 {
		c.pagination.TotalPages = 1
	}
	if c.pagination.CurrentPage > c.pagination.TotalPages {
		c.pagination.CurrentPage = c.pagination.TotalPages
		c.params.Page = c.pagination.CurrentPage
	}
	c.pagination.HasNextPage = c.pagination.CurrentPage < c.pagination.TotalPages
	c.pagination.HasPreviousPage = c.pagination.CurrentPage > 1
	return removed
}

// PatchByID applies a narrow in-place patch to the matching record, leaving
// ordering and every other record untouched.
func (c *Controller[T]) PatchByID(id string, patch func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == id {
			patch(&c.items[i])
			return true
		}
	}
	return false
}

func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller[T]) Pagination() model.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *Controller[T]) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last fetch error message, empty when the last fetch
// succeeded.
func (c *Controller[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchErr
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
