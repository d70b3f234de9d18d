package opencorp

import (
	"net/url"
	"strings"
)

// RequestSpec describes one API call: version, path segments and query
// parameters. Use FromURL, FromRoute or FromParts to build one.
type RequestSpec struct {
	// Version is the bare API version, e.g. "0.4".
	Version string
	// Segments follow the version segment. None contains '/'.
	Segments []string
	// Params are the query parameters in caller order.
	Params *Params
	// Token, when set, is sent as the last parameter api_token.
	Token string
}

// FromParts builds a spec from a version, path segments and parameters.
func FromParts(version string, segments []string, params *Params) (*RequestSpec, error) {
	input := version

	version = normalizeVersion(version)
	if version == "" {
		return nil, &MalformedRouteError{Input: input, Reason: "missing API version"}
	}

	for _, segment := range segments {
		if segment == "" {
			return nil, &MalformedRouteError{Input: strings.Join(segments, "/"), Reason: "empty path segment"}
		}

		if strings.Contains(segment, "/") {
			return nil, &MalformedRouteError{Input: segment, Reason: "path segment contains '/'"}
		}
	}

	spec := &RequestSpec{
		Version:  version,
		Segments: append([]string(nil), segments...),
		Params:   params.Clone(),
	}

	if term, ok := spec.Params.Lookup(ParamTerm); ok {
		spec.Params.Set(ParamTerm, NormalizeTerm(term))
	}

	return spec, nil
}

// FromRoute parses a route of the form v<version>/<type>/...?k=v&k=v.
func FromRoute(route string) (*RequestSpec, error) {
	trimmed := strings.TrimPrefix(route, "/")

	path, rawQuery, hasQuery := strings.Cut(trimmed, "?")

	var segments []string

	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	if len(segments) == 0 {
		return nil, &MalformedRouteError{Input: route, Reason: "missing API version"}
	}

	if !strings.HasPrefix(segments[0], "v") {
		return nil, &MalformedRouteError{Input: route, Reason: "first segment must be v<version>"}
	}

	params := NewParams()

	if hasQuery && rawQuery != "" {
		for _, pair := range strings.Split(rawQuery, "&") {
			parts := strings.Split(pair, "=")
			if len(parts) != 2 {
				return nil, &MalformedRouteError{Input: route, Reason: "query pair " + pair + " must contain exactly one '='"}
			}

			params.Set(parts[0], parts[1])
		}
	}

	return FromParts(segments[0], segments[1:], params)
}

// FromURL parses a full URL on the API host. The host must match baseURL.
func FromURL(raw, baseURL string) (*RequestSpec, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &MalformedRouteError{Input: raw, Reason: err.Error()}
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &MalformedRouteError{Input: raw, Reason: "URL must use http or https"}
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, &MalformedRouteError{Input: baseURL, Reason: "invalid base URL"}
	}

	if !strings.EqualFold(parsed.Host, base.Host) {
		return nil, &MalformedRouteError{Input: raw, Reason: "host does not match " + base.Host}
	}

	route := strings.TrimPrefix(parsed.EscapedPath(), strings.TrimSuffix(base.EscapedPath(), "/"))
	if parsed.RawQuery != "" {
		route += "?" + parsed.RawQuery
	}

	return FromRoute(route)
}

// WithParam returns a copy of the spec with one parameter set.
func (s *RequestSpec) WithParam(key, value string) *RequestSpec {
	clone := *s
	clone.Segments = append([]string(nil), s.Segments...)
	clone.Params = s.Params.Clone().Set(key, value)

	return &clone
}

// ObjectType returns the first path segment after the version, if any.
func (s *RequestSpec) ObjectType() string {
	if len(s.Segments) == 0 {
		return ""
	}

	return s.Segments[0]
}

// Query returns the encoded query, including the token.
func (s *RequestSpec) Query() string {
	params := s.Params
	if s.Token != "" && !params.Has(ParamToken) {
		params = params.Clone().Set(ParamToken, s.Token)
	}

	return params.Encode()
}

// Route returns the URL without the base: /v<version>/<segments>?<query>.
func (s *RequestSpec) Route() string {
	var builder strings.Builder

	builder.WriteString("/v")
	builder.WriteString(s.Version)

	for _, segment := range s.Segments {
		builder.WriteByte('/')
		builder.WriteString(segment)
	}

	if query := s.Query(); query != "" {
		builder.WriteByte('?')
		builder.WriteString(query)
	}

	return builder.String()
}

// URL returns the full request URL against baseURL.
func (s *RequestSpec) URL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + s.Route()
}

func normalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}
