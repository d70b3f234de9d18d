package opencorp

import (
	"context"
	"net/http"
	"time"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.opencorporates.com"

// Object types used by the typed helpers.
const (
	TypeCompanies     = "companies"
	TypeOfficers      = "officers"
	TypeJurisdictions = "jurisdictions"
)

// Client is bound to one API version. Every method checks the object type
// against the version's allow-list before any request is made.
type Client interface {
	Version() *Version
	BaseURL() string

	Fetch(ctx context.Context, objectType string, identifiers ...string) (*FetchResult, error)
	FetchWithParams(ctx context.Context, objectType string, identifiers []string, params *Params) (*FetchResult, error)
	Search(ctx context.Context, objectType, term string, params *Params) (SearchResults, error)
	Match(ctx context.Context, objectType, term string, params *Params) (*MatchResult, error)
	NewRequest(spec *RequestSpec) Request

	SearchCompanies(ctx context.Context, term string, params *Params) (SearchResults, error)
	SearchOfficers(ctx context.Context, term string, params *Params) (SearchResults, error)
	FetchCompany(ctx context.Context, jurisdictionCode, companyNumber string) (*FetchResult, error)
	FetchOfficer(ctx context.Context, officerID string) (*FetchResult, error)
	MatchJurisdiction(ctx context.Context, term string) (*MatchResult, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an opencorp.Client.
//
// Only BaseURL and APIVersion have defaults; everything else is optional.
// Requests are never retried unless RetryMax is set explicitly.
type Config struct {
	// BaseURL: API host, e.g. "https://api.opencorporates.com".
	// occlient.New trims a trailing slash and adds "https://" when no scheme is present.
	BaseURL string
	// APIVersion: version identifier, with or without the leading "v".
	APIVersion string
	// APIToken: sent as the api_token query parameter when set.
	APIToken string

	// HTTPTimeout: per-request timeout of the underlying HTTP client.
	HTTPTimeout time.Duration
	// HTTPClient: replaces the underlying *http.Client (tests, proxies).
	HTTPClient *http.Client
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// RetryMax: retries for 5xx/429 and connection errors. Zero disables retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug: enables request/response logging when a Logger is provided.
	Debug  bool
	Logger Logger
	// Interceptors run around every request.
	Interceptors *InterceptorChain

	// Cache: opt-in store for search pages. Nil disables caching and makes
	// every traversal of SearchResults hit the network.
	Cache    Cache
	CacheTTL time.Duration

	// Versions: registry to resolve APIVersion. Nil uses NewVersionRegistry().
	Versions *VersionRegistry
}
