package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PageParams is a parsed ?page=&page_size= pair.
type PageParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset of the first item on the page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePage reads page and page_size from the query string. Missing or
// malformed values fall back to page 1 and defaultSize; page_size is capped at maxSize.
func ParsePage(r *http.Request, defaultSize, maxSize int) PageParams {
	q := r.URL.Query()
	p := PageParams{Page: 1, PageSize: defaultSize}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v > 0 {
		p.PageSize = v
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

// Page is the paginated list envelope: {count, next, previous, results}.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope for results with next/previous links derived
// from the request URL. baseURL may be empty, in which case links are relative.
func NewPage[T any](r *http.Request, baseURL string, p PageParams, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: total, Results: results}

	if int64(p.Page*p.PageSize) < total {
		link := pageLink(r, baseURL, p.Page+1)
		page.Next = &link
	}
	if p.Page > 1 {
		link := pageLink(r, baseURL, p.Page-1)
		page.Previous = &link
	}
	return page
}

func pageLink(r *http.Request, baseURL string, page int) string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
	return strings.TrimRight(baseURL, "/") + u.String()
}

// PathInt64 parses a positive integer path value such as {id}.
func PathInt64(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// QueryID parses an optional positive integer filter. It returns 0 when the
// parameter is absent and ok is false when it is present but malformed.
func QueryID(r *http.Request, name string) (id int64, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// WriteQueryError writes a 400 naming the malformed query parameter.
func WriteQueryError(w http.ResponseWriter, name string) {
	WriteError(w, http.StatusBadRequest, "invalid_query", "invalid query parameter",
		map[string][]string{name: {"A valid integer is required."}})
}

// QueryBool reports whether a query flag is set to 1/true/yes.
func QueryBool(r *http.Request, name string) bool {
	return Truthy(r.URL.Query().Get(name))
}

// Truthy interprets "1", "true" and "yes" (any case) as true.
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
