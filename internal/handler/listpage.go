package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/listview"
)

// ListPage bundles one page's list controller with its debounced search
// input. Pages live in the per-session state registry and are rebuilt with a
// fetch whenever they fall out of it.
type ListPage[T any] struct {
	List   *listview.Controller[T]
	search *listview.Debouncer
}

// NewListPage wires the debouncer so that an idle search input commits the
// value as the search filter and refetches. The commit fires off the request
// path, so it carries a background context rather than the keystroke's.
func NewListPage[T any](list *listview.Controller[T], debounce time.Duration) *ListPage[T] {
	p := &ListPage[T]{List: list}
	p.search = listview.NewDebouncer(debounce, func(value string) {
		list.SetFilter("search", value)
		_ = list.Fetch(context.Background())
	})
	return p
}

// SearchRequest is one keystroke of a list page's search box, or an explicit
// submit which bypasses the idle delay.
type SearchRequest struct {
	Query  string `json:"query"`
	Submit bool   `json:"submit"`
}

// ServeList installs the parameters parsed from the page URL, fetches, and
// renders the list view model. A failed fetch still renders: the previous
// items stay visible with the error alongside.
func ServeList[T any](c *gin.Context, page *ListPage[T], defaultLimit int) {
	page.List.SetParams(listview.ParamsFromQuery(c.Request.URL.Query(), defaultLimit))
	_ = page.List.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, ListViewOf(page.List))
}

// ServeSearch feeds the search debouncer. A burst of keystrokes commits only
// the last value, once the input has been idle for the configured interval.
func ServeSearch[T any](c *gin.Context, page *ListPage[T]) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
		return
	}
	if req.Submit {
		page.search.Flush(req.Query)
		c.JSON(http.StatusOK, ListViewOf(page.List))
		return
	}
	page.search.Type(req.Query)
	c.JSON(http.StatusAccepted, NewSuccessResponse(nil))
}

// ListViewOf snapshots a controller into the shared list view model.
func ListViewOf[T any](list *listview.Controller[T]) *ListView {
	params := list.Params()
	filters := map[string]string{}
	if params.Search != "" {
		filters["search"] = params.Search
	}
	if params.Status != "" {
		filters["status"] = params.Status
	}
	if params.Speciality != "" {
		filters["speciality"] = params.Speciality
	}
	return &ListView{
		Data:       list.Items(),
		Pagination: list.Pagination(),
		Filters:    filters,
		Error:      list.Err(),
	}
}
