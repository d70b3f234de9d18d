package opencorp

import (
	"context"
	"iter"
	"time"
)

// Record is a flat entity record as returned by the API.
type Record map[string]interface{}

// String returns the value of a field as a string, or "" when the field is
// absent or not a string.
func (r Record) String(field string) string {
	if value, ok := r[field].(string); ok {
		return value
	}

	return ""
}

// Response is the outcome of one GET. Non-2xx statuses are data, not errors.
type Response struct {
	URL         string    `json:"url"          yaml:"url"`
	StatusCode  int       `json:"status_code"  yaml:"status_code"`
	Body        []byte    `json:"-"            yaml:"-"`
	RequestedAt time.Time `json:"requested_at" yaml:"requested_at"`
	RequestID   string    `json:"request_id"   yaml:"request_id"`
}

// OK reports whether the response status is 200.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == 200
}

// Pagination is read from the first page of a search and never changes.
type Pagination struct {
	PerPage    int `json:"per_page"    yaml:"per_page"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
	TotalCount int `json:"total_count" yaml:"total_count"`
}

// FetchResult is the outcome of a single-entity lookup.
//
// Found is false when the status is not 200 or when the results container is
// empty; Record is nil in both cases. Use Response.StatusCode to tell a 404
// apart from an empty 200.
type FetchResult struct {
	URL        string    `json:"url"         yaml:"url"`
	ObjectType string    `json:"object_type" yaml:"object_type"`
	Response   *Response `json:"response"    yaml:"response"`
	Record     Record    `json:"record"      yaml:"record"`
	Found      bool      `json:"found"       yaml:"found"`
}

// MatchResult is the outcome of a match lookup. Absence follows the same
// rules as FetchResult.
type MatchResult struct {
	URL        string    `json:"url"         yaml:"url"`
	ObjectType string    `json:"object_type" yaml:"object_type"`
	Term       string    `json:"term"        yaml:"term"`
	Response   *Response `json:"response"    yaml:"response"`
	Records    []Record  `json:"records"     yaml:"records"`
	Found      bool      `json:"found"       yaml:"found"`
}

// PageResult carries one page from SearchResults.StreamPages.
type PageResult struct {
	Page  int
	Items []Record
	Err   error
}

// SearchResults is a term-matched collection spread over several pages.
//
// The first page is requested when the search is created. Results walks every
// page again on each call: it is a stream, not a cached slice, unless the
// client was configured with a page cache.
type SearchResults interface {
	ObjectType() string
	Term() string
	// URL is the first-page URL without a page parameter.
	URL() string
	Response() *Response
	Pagination() Pagination
	// PageURLs has exactly Pagination().TotalPages entries, pages 1..N.
	PageURLs() []string
	Results(ctx context.Context) iter.Seq2[Record, error]
	Page(ctx context.Context, page int) ([]Record, error)
	All(ctx context.Context) ([]Record, error)
	// FetchPages requests every page with up to concurrency requests in
	// flight and returns them in page order.
	FetchPages(ctx context.Context, concurrency int) ([][]Record, error)
	StreamPages(ctx context.Context) <-chan PageResult
}

// Request is a raw API call that keeps every response it has received.
type Request interface {
	Spec() *RequestSpec
	URL() string
	// Response returns the latest response, issuing the call if none exists.
	Response(ctx context.Context) (*Response, error)
	// Refresh always issues the call and appends the response.
	Refresh(ctx context.Context) (*Response, error)
	History() []*Response
}
