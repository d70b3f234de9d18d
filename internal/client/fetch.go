package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// Fetch retrieves one entity by identifier path.
func (c *Client) Fetch(ctx context.Context, objectType string, identifiers ...string) (*opencorp.FetchResult, error) {
	return c.FetchWithParams(ctx, objectType, identifiers, nil)
}

// FetchWithParams is Fetch with extra query parameters.
func (c *Client) FetchWithParams(ctx context.Context, objectType string, identifiers []string, params *opencorp.Params) (*opencorp.FetchResult, error) {
	err := c.version.CheckFetch(objectType)
	if err != nil {
		return nil, err
	}

	if len(identifiers) == 0 {
		return nil, fmt.Errorf("%w: fetching %s", opencorp.ErrMissingIdentifier, objectType)
	}

	spec, err := c.spec(append([]string{objectType}, identifiers...), params)
	if err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", objectType, err)
	}

	result := &opencorp.FetchResult{
		URL:        resp.URL,
		ObjectType: objectType,
		Response:   resp,
	}

	if !resp.OK() {
		return result, nil
	}

	results, err := decodeResults(resp)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return result, nil
	}

	record, err := envelope(resp, results)
	if err != nil {
		return nil, err
	}

	result.Record = record
	result.Found = true

	return result, nil
}
