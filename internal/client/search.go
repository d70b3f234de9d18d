package client

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"sync"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// Search issues the first page of a search and returns the paginator.
func (c *Client) Search(ctx context.Context, objectType, term string, params *opencorp.Params) (opencorp.SearchResults, error) {
	err := c.version.CheckSearch(objectType)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: searching %s", opencorp.ErrMissingTerm, objectType)
	}

	spec, err := c.spec([]string{objectType, "search"}, params.Clone().Set(opencorp.ParamTerm, term))
	if err != nil {
		return nil, err
	}

	// The token stays ahead of the page number in page URLs.
	if spec.Token != "" && !spec.Params.Has(opencorp.ParamToken) {
		spec.Params.Set(opencorp.ParamToken, spec.Token)
	}

	spec.Token = ""

	resp, err := c.get(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", objectType, err)
	}

	if !resp.OK() {
		return nil, &opencorp.SearchError{Response: resp}
	}

	results, err := decodeResults(resp)
	if err != nil {
		return nil, err
	}

	pagination, err := readPagination(resp, results)
	if err != nil {
		return nil, err
	}

	pageURLs := make([]string, pagination.TotalPages)
	for page := 1; page <= pagination.TotalPages; page++ {
		pageURLs[page-1] = spec.WithParam(opencorp.ParamPage, strconv.Itoa(page)).URL(c.baseURL)
	}

	c.debug("Search started", map[string]interface{}{
		"object_type": objectType,
		"total_pages": pagination.TotalPages,
		"total_count": pagination.TotalCount,
	})

	return &searchResults{
		client:     c,
		objectType: objectType,
		term:       term,
		url:        resp.URL,
		response:   resp,
		pagination: pagination,
		pageURLs:   pageURLs,
	}, nil
}

func readPagination(resp *opencorp.Response, results map[string]interface{}) (opencorp.Pagination, error) {
	var pagination opencorp.Pagination

	fields := []struct {
		key    string
		target *int
	}{
		{"per_page", &pagination.PerPage},
		{"total_pages", &pagination.TotalPages},
		{"total_count", &pagination.TotalCount},
	}

	for _, field := range fields {
		value, ok := toInt(results[field.key])
		if !ok || value < 0 {
			return opencorp.Pagination{}, &opencorp.ParseError{URL: resp.URL, Reason: fmt.Sprintf("invalid %q", field.key)}
		}

		*field.target = value
	}

	return pagination, nil
}

// searchResults implements opencorp.SearchResults. It holds no page data:
// every traversal goes back to the client.
type searchResults struct {
	client     *Client
	objectType string
	term       string
	url        string
	response   *opencorp.Response
	pagination opencorp.Pagination
	pageURLs   []string
}

func (s *searchResults) ObjectType() string { return s.objectType }

func (s *searchResults) Term() string { return s.term }

func (s *searchResults) URL() string { return s.url }

func (s *searchResults) Response() *opencorp.Response { return s.response }

func (s *searchResults) Pagination() opencorp.Pagination { return s.pagination }

func (s *searchResults) PageURLs() []string {
	return append([]string(nil), s.pageURLs...)
}

// Page fetches one 1-based page.
func (s *searchResults) Page(ctx context.Context, page int) ([]opencorp.Record, error) {
	if page < 1 || page > len(s.pageURLs) {
		return nil, fmt.Errorf("%w: %d not in 1..%d", opencorp.ErrPageOutOfRange, page, len(s.pageURLs))
	}

	resp, err := s.client.getCached(ctx, s.pageURLs[page-1])
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", page, err)
	}

	if !resp.OK() {
		return nil, &opencorp.SearchError{Response: resp}
	}

	results, err := decodeResults(resp)
	if err != nil {
		return nil, err
	}

	key, value := listValue(results, s.objectType)
	if key == "" {
		return nil, &opencorp.ParseError{URL: resp.URL, Reason: fmt.Sprintf("missing %q list", s.objectType)}
	}

	return unwrapList(resp, key, value)
}

// Results walks every page in order, stopping at the first error.
func (s *searchResults) Results(ctx context.Context) iter.Seq2[opencorp.Record, error] {
	return func(yield func(opencorp.Record, error) bool) {
		for page := 1; page <= len(s.pageURLs); page++ {
			items, err := s.Page(ctx, page)
			if err != nil {
				yield(nil, err)

				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// All collects Results. On error the records read so far are returned too.
func (s *searchResults) All(ctx context.Context) ([]opencorp.Record, error) {
	records := make([]opencorp.Record, 0, s.pagination.TotalCount)

	for record, err := range s.Results(ctx) {
		if err != nil {
			return records, err
		}

		records = append(records, record)
	}

	return records, nil
}

// FetchPages fetches all pages with bounded concurrency. The returned slice is
// indexed by page number minus one.
func (s *searchResults) FetchPages(ctx context.Context, concurrency int) ([][]opencorp.Record, error) {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	concurrency = min(concurrency, constants.MaxConcurrencyLimit)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pages := make([][]opencorp.Record, len(s.pageURLs))
	errs := make([]error, len(s.pageURLs))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, concurrency)

launch:
	for index := range s.pageURLs {
		// Acquire before starting so at most concurrency goroutines exist.
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			for rest := index; rest < len(errs); rest++ {
				errs[rest] = ctx.Err()
			}

			break launch
		}

		waitGroup.Add(1)

		go func(index int) {
			defer waitGroup.Done()
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				errs[index] = ctx.Err()

				return
			}

			items, err := s.Page(ctx, index+1)
			if err != nil {
				errs[index] = err

				cancel()

				return
			}

			pages[index] = items
		}(index)
	}

	waitGroup.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return pages, nil
}

// StreamPages sends each page in order on the returned channel, which is
// closed after the last page, the first error or ctx cancellation.
func (s *searchResults) StreamPages(ctx context.Context) <-chan opencorp.PageResult {
	out := make(chan opencorp.PageResult)

	go func() {
		defer close(out)

		for page := 1; page <= len(s.pageURLs); page++ {
			items, err := s.Page(ctx, page)

			select {
			case out <- opencorp.PageResult{Page: page, Items: items, Err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	return out
}
