package opencorp

import (
	"fmt"
	"slices"
	"sort"
)

// DefaultVersion is the API version used when none is configured.
const DefaultVersion = "0.4"

// Operation names used in UnsupportedTypeError.
const (
	OperationSearch = "search"
	OperationFetch  = "fetch"
	OperationMatch  = "match"
)

// Version lists the object types one API version accepts per operation.
type Version struct {
	ID          string   `json:"id"           yaml:"id"`
	SearchTypes []string `json:"search_types" yaml:"search_types"`
	FetchTypes  []string `json:"fetch_types"  yaml:"fetch_types"`
	MatchTypes  []string `json:"match_types"  yaml:"match_types"`
}

// CheckSearch returns an *UnsupportedTypeError unless objectType can be searched.
func (v *Version) CheckSearch(objectType string) error {
	return v.check(OperationSearch, v.SearchTypes, objectType)
}

// CheckFetch returns an *UnsupportedTypeError unless objectType can be fetched.
func (v *Version) CheckFetch(objectType string) error {
	return v.check(OperationFetch, v.FetchTypes, objectType)
}

// CheckMatch returns an *UnsupportedTypeError unless objectType can be matched.
func (v *Version) CheckMatch(objectType string) error {
	return v.check(OperationMatch, v.MatchTypes, objectType)
}

func (v *Version) check(operation string, allowed []string, objectType string) error {
	if slices.Contains(allowed, objectType) {
		return nil
	}

	return &UnsupportedTypeError{Operation: operation, ObjectType: objectType, Version: v.ID}
}

// VersionRegistry maps version identifiers to their configuration.
type VersionRegistry struct {
	versions map[string]*Version
}

// NewVersionRegistry returns the registry of every version this client knows.
func NewVersionRegistry() *VersionRegistry {
	return &VersionRegistry{
		versions: map[string]*Version{
			"0.4": {
				ID: "0.4",
				SearchTypes: []string{
					"companies",
					"officers",
					"corporate_groupings",
					"gazette_notices",
					"control_statements",
					"trademark_registrations",
					"jurisdictions",
				},
				FetchTypes: []string{
					"companies",
					"officers",
					"corporate_groupings",
					"filings",
					"data",
					"statements",
					"placeholders",
					"industry_codes",
					"account_status",
				},
				MatchTypes: []string{"jurisdictions"},
			},
		},
	}
}

// Lookup returns the version with the given identifier ("0.4" or "v0.4").
func (r *VersionRegistry) Lookup(id string) (*Version, error) {
	version, ok := r.versions[normalizeVersion(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, id)
	}

	return version, nil
}

// IDs returns the known version identifiers in sorted order.
func (r *VersionRegistry) IDs() []string {
	ids := make([]string, 0, len(r.versions))
	for id := range r.versions {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
