package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// decodeResults parses a 200 body and returns its "results" object.
func decodeResults(resp *opencorp.Response) (map[string]interface{}, error) {
	var body map[string]interface{}

	err := json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, &opencorp.ParseError{URL: resp.URL, Reason: "body is not a JSON object", Err: err}
	}

	raw, ok := body["results"]
	if !ok {
		return nil, &opencorp.ParseError{URL: resp.URL, Reason: `missing "results"`}
	}

	results, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &opencorp.ParseError{URL: resp.URL, Reason: `"results" is not an object`}
	}

	return results, nil
}

// unwrap returns the inner record of a single-key envelope such as
// {"company": {...}}. Anything else is returned as-is when it is an object.
func unwrap(value interface{}) (opencorp.Record, bool) {
	object, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}

	if len(object) == 1 {
		for _, inner := range object {
			if record, isObject := inner.(map[string]interface{}); isObject {
				return opencorp.Record(record), true
			}
		}
	}

	return opencorp.Record(object), true
}

// envelope returns the inner record of a results object holding exactly one
// object-valued key, such as {"company": {...}}.
func envelope(resp *opencorp.Response, results map[string]interface{}) (opencorp.Record, error) {
	if len(results) != 1 {
		return nil, &opencorp.ParseError{URL: resp.URL, Reason: fmt.Sprintf(`"results" has %d keys, want 1`, len(results))}
	}

	for key, value := range results {
		record, ok := value.(map[string]interface{})
		if !ok {
			return nil, &opencorp.ParseError{URL: resp.URL, Reason: fmt.Sprintf("%q is not an object", key)}
		}

		return opencorp.Record(record), nil
	}

	return nil, nil
}

// unwrapList unwraps every object in a JSON array.
func unwrapList(resp *opencorp.Response, key string, value interface{}) ([]opencorp.Record, error) {
	if value == nil {
		return []opencorp.Record{}, nil
	}

	items, ok := value.([]interface{})
	if !ok {
		return nil, &opencorp.ParseError{URL: resp.URL, Reason: fmt.Sprintf("%q is not a list", key)}
	}

	records := make([]opencorp.Record, 0, len(items))

	for index, item := range items {
		record, isObject := unwrap(item)
		if !isObject {
			return nil, &opencorp.ParseError{URL: resp.URL, Reason: fmt.Sprintf("%s[%d] is not an object", key, index)}
		}

		records = append(records, record)
	}

	return records, nil
}

// toInt accepts JSON numbers and numeric strings.
func toInt(value interface{}) (int, bool) {
	switch typed := value.(type) {
	case float64:
		return int(typed), true
	case json.Number:
		parsed, err := typed.Int64()

		return int(parsed), err == nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))

		return parsed, err == nil
	default:
		return 0, false
	}
}
