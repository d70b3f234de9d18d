package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// Match resolves a free-text term against the provider's match endpoint.
func (c *Client) Match(ctx context.Context, objectType, term string, params *opencorp.Params) (*opencorp.MatchResult, error) {
	err := c.version.CheckMatch(objectType)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: matching %s", opencorp.ErrMissingTerm, objectType)
	}

	spec, err := c.spec([]string{objectType, "match"}, params.Clone().Set(opencorp.ParamTerm, term))
	if err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", objectType, err)
	}

	result := &opencorp.MatchResult{
		URL:        resp.URL,
		ObjectType: objectType,
		Term:       term,
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

	var records []opencorp.Record

	// A list of envelopes, or a single envelope for a lone match.
	if key, value := listValue(results, objectType); key != "" {
		records, err = unwrapList(resp, key, value)
		if err != nil {
			return nil, err
		}
	} else {
		record, err := envelope(resp, results)
		if err != nil {
			return nil, err
		}

		records = []opencorp.Record{record}
	}

	result.Records = records
	result.Found = len(records) > 0

	return result, nil
}

// listValue returns results[objectType], or the only list-valued entry when
// the provider keys the list differently.
func listValue(results map[string]interface{}, objectType string) (string, interface{}) {
	if value, ok := results[objectType]; ok {
		return objectType, value
	}

	var (
		foundKey   string
		foundValue interface{}
	)

	for key, value := range results {
		if _, isList := value.([]interface{}); !isList {
			continue
		}

		if foundKey != "" {
			return "", nil
		}

		foundKey, foundValue = key, value
	}

	return foundKey, foundValue
}
