// Package client implements opencorp.Client on top of the internal HTTP
// transport.
package client

import (
	"context"
	"time"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/internal/http"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// Client implements the opencorp.Client interface for one API version.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    *opencorp.Version
	logger     opencorp.Logger
	cache      opencorp.Cache
	cacheTTL   time.Duration
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *opencorp.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a client bound to config.APIVersion. BaseURL is used as given;
// occlient.New normalizes it first.
func New(config *opencorp.Config) (*Client, error) {
	if config == nil {
		return nil, opencorp.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, opencorp.ErrBaseURLRequired
	}

	registry := config.Versions
	if registry == nil {
		registry = opencorp.NewVersionRegistry()
	}

	versionID := config.APIVersion
	if versionID == "" {
		versionID = opencorp.DefaultVersion
	}

	version, err := registry.Lookup(versionID)
	if err != nil {
		return nil, err
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = constants.DefaultCacheTTL
	}

	return &Client{
		httpClient: http.NewClient(createHTTPClientOptions(config)...),
		baseURL:    config.BaseURL,
		token:      config.APIToken,
		version:    version,
		logger:     config.Logger,
		cache:      config.Cache,
		cacheTTL:   cacheTTL,
	}, nil
}

// Version returns the API version the client is bound to.
func (c *Client) Version() *opencorp.Version {
	return c.version
}

// BaseURL returns the API host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NewRequest binds a raw request to this client's transport. The client token
// is added when the spec carries none.
func (c *Client) NewRequest(spec *opencorp.RequestSpec) opencorp.Request {
	bound := *spec
	if bound.Token == "" {
		bound.Token = c.token
	}

	return newRequest(c, &bound)
}

// SearchCompanies searches companies by name.
func (c *Client) SearchCompanies(ctx context.Context, term string, params *opencorp.Params) (opencorp.SearchResults, error) {
	return c.Search(ctx, opencorp.TypeCompanies, term, params)
}

// SearchOfficers searches officers by name.
func (c *Client) SearchOfficers(ctx context.Context, term string, params *opencorp.Params) (opencorp.SearchResults, error) {
	return c.Search(ctx, opencorp.TypeOfficers, term, params)
}

// FetchCompany fetches one company by jurisdiction code and company number.
func (c *Client) FetchCompany(ctx context.Context, jurisdictionCode, companyNumber string) (*opencorp.FetchResult, error) {
	return c.Fetch(ctx, opencorp.TypeCompanies, jurisdictionCode, companyNumber)
}

// FetchOfficer fetches one officer by ID.
func (c *Client) FetchOfficer(ctx context.Context, officerID string) (*opencorp.FetchResult, error) {
	return c.Fetch(ctx, opencorp.TypeOfficers, officerID)
}

// MatchJurisdiction matches a free-text jurisdiction name.
func (c *Client) MatchJurisdiction(ctx context.Context, term string) (*opencorp.MatchResult, error) {
	return c.Match(ctx, opencorp.TypeJurisdictions, term, nil)
}

// spec builds a request spec for this client's version and token.
func (c *Client) spec(segments []string, params *opencorp.Params) (*opencorp.RequestSpec, error) {
	spec, err := opencorp.FromParts(c.version.ID, segments, params)
	if err != nil {
		return nil, err
	}

	spec.Token = c.token

	return spec, nil
}

// get issues one GET for spec.
func (c *Client) get(ctx context.Context, spec *opencorp.RequestSpec) (*opencorp.Response, error) {
	return c.httpClient.Get(ctx, spec.URL(c.baseURL))
}

// loggerAdapter adapts opencorp.Logger to http.Logger.
type loggerAdapter struct {
	logger opencorp.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

var _ opencorp.Client = (*Client)(nil)
