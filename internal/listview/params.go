package listview

import (
	"net/url"
	"strconv"
)

// Params is the filter/search/page state for a list view. It lives in the
// page URL's query string, not in hidden component state, so back/forward
// and reload keep the filter context.
type Params struct {
	Search     string
	Status     string
	Speciality string
	Page       int
	Limit      int
}

// ParamsFromQuery reads list parameters from a request query string. Page
// defaults to 1, limit to defaultLimit.
func ParamsFromQuery(q url.Values, defaultLimit int) Params {
	p := Params{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		Speciality: q.Get("speciality"),
		Page:       1,
		Limit:      defaultLimit,
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
	}
	return p
}

// Values builds the outgoing query. Empty and "all" filter values mean "no
// constraint" and are omitted entirely; anything else is passed verbatim.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	if constrains(p.Search) {
		v.Set("search", p.Search)
	}
	if constrains(p.Status) {
		v.Set("status", p.Status)
	}
	if constrains(p.Speciality) {
		v.Set("speciality", p.Speciality)
	}
	return v
}

func (p Params) Encode() string {
	return p.Values().Encode()
}

// sameFilters reports whether two parameter sets differ only in page/limit.
func (p Params) sameFilters(o Params) bool {
	return p.Search == o.Search && p.Status == o.Status && p.Speciality == o.Speciality
}

func constrains(value string) bool {
	return value != "" && value != "all"
}
