package listview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/admin-console/internal/model"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// pagedFetcher serves a scripted envelope and records each requested query.
type pagedFetcher struct {
	mu       sync.Mutex
	envelope string
	queries  []url.Values
	err      error
}

func (f *pagedFetcher) Get(_ context.Context, _ string, endpoint string, out interface{}) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.queries = append(f.queries, u.Query())
	body, fetchErr := f.envelope, f.err
	f.mu.Unlock()
	if fetchErr != nil {
		return fetchErr
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *pagedFetcher) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func envelope(items []item, pg model.Pagination) string {
	raw, _ := json.Marshal(map[string]interface{}{"data": items, "pagination": pg})
	return string(raw)
}

func newTestController(f *pagedFetcher) *Controller[item] {
	return NewController(f, "tok", "/admin/doctors", 10, func(i item) string { return i.ID })
}

func TestFetchOmitsUnconstrainedFilters(t *testing.T) {
	f := &pagedFetcher{envelope: envelope(nil, model.Pagination{CurrentPage: 1, TotalPages: 1})}
	c := newTestController(f)

	c.SetFilter("status", "all")
	c.SetFilter("search", "")
	require.NoError(t, c.Fetch(context.Background()))

	q := f.lastQuery()
	assert.False(t, q.Has("status"))
	assert.False(t, q.Has("search"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
}

func TestFilterChangeResetsToFirstPage(t *testing.T) {
	f := &pagedFetcher{envelope: envelope(nil, model.Pagination{CurrentPage: 1, TotalPages: 1})}
	c := newTestController(f)

	c.SetPage(5)
	assert.Equal(t, 5, c.Params().Page)

	c.SetFilter("status", "ACTIVE")
	assert.Equal(t, 1, c.Params().Page)

	// A parameter set with the same filters keeps the requested page.
	c.SetParams(Params{Status: "ACTIVE", Page: 3, Limit: 10})
	assert.Equal(t, 3, c.Params().Page)

	// A parameter set with different filters snaps back to page 1.
	c.SetParams(Params{Status: "INACTIVE", Page: 3, Limit: 10})
	assert.Equal(t, 1, c.Params().Page)
}

func TestFetchSnapsToServerPage(t *testing.T) {
	f := &pagedFetcher{envelope: envelope(
		[]item{{ID: "a"}},
		model.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 21},
	)}
	c := newTestController(f)

	c.SetPage(9)
	require.NoError(t, c.Fetch(context.Background()))

	assert.Equal(t, 3, c.Params().Page)
	assert.Equal(t, 3, c.Pagination().CurrentPage)
}

func TestFetchErrorKeepsItems(t *testing.T) {
	f := &pagedFetcher{envelope: envelope(
		[]item{{ID: "a", Name: "Dr A"}},
		model.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 1},
	)}
	c := newTestController(f)
	require.NoError(t, c.Fetch(context.Background()))

	f.mu.Lock()
	f.err = fmt.Errorf("upstream down")
	f.mu.Unlock()
	require.Error(t, c.Fetch(context.Background()))

	assert.Equal(t, []item{{ID: "a", Name: "Dr A"}}, c.Items())
	assert.Equal(t, "upstream down", c.Err())
	assert.False(t, c.Loading())
}

func TestRemoveByIDRecomputesPagination(t *testing.T) {
	f := &pagedFetcher{envelope: envelope(
		[]item{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		model.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 23, HasPreviousPage: true},
	)}
	c := newTestController(f)
	require.NoError(t, c.Fetch(context.Background()))

	removed := c.RemoveByID([]string{"a", "c"})
	assert.Equal(t, 2, removed)
	assert.Equal(t, []item{{ID: "b"}}, c.Items())

	pg := c.Pagination()
	assert.Equal(t, 21, pg.TotalItems)
	// ceil(21/10) = 3, so page 3 survives.
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 3, pg.CurrentPage)
	assert.False(t, pg.HasNextPage)
	assert.True(t, pg.HasPreviousPage)
}

func TestRemoveByIDClampsCurrentPage(t *testing.T) {
	f := &pagedFetcher{envelope: envelope(
		[]item{{ID: "a"}},
		model.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 21},
	)}
	c := newTestController(f)
	require.NoError(t, c.Fetch(context.Background()))

	// Dropping the last item of page 3 leaves 20 items, two pages.
	c.RemoveByID([]string{"a"})
	pg := c.Pagination()
	assert.Equal(t, 2, pg.TotalPages)
	assert.Equal(t, 2, pg.CurrentPage)
	assert.Equal(t, 2, c.Params().Page)
}

func TestPatchByIDTouchesOnlyTheMatch(t *testing.T) {
	f := &pagedFetcher{envelope: envelope(
		[]item{{ID: "a", Name: "one"}, {ID: "b", Name: "two"}},
		model.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 2},
	)}
	c := newTestController(f)
	require.NoError(t, c.Fetch(context.Background()))

	ok := c.PatchByID("b", func(i *item) { i.Name = "patched" })
	assert.True(t, ok)
	assert.Equal(t, []item{{ID: "a", Name: "one"}, {ID: "b", Name: "patched"}}, c.Items())

	assert.False(t, c.PatchByID("missing", func(i *item) { i.Name = "x" }))
}
