// Package occlient provides the main entry point for creating OpenCorporates API clients
package occlient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/opencorp/internal/client"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// New creates a client from config. The caller's config is not modified.
func New(config *opencorp.Config) (opencorp.Client, error) {
	if config == nil {
		return nil, opencorp.ErrConfigRequired
	}

	normalized := *config
	normalized.BaseURL = NormalizeBaseURL(config.BaseURL)

	if normalized.APIVersion == "" {
		normalized.APIVersion = opencorp.DefaultVersion
	}

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeBaseURL trims a trailing slash and adds "https://" when no scheme
// is present. An empty value yields DefaultBaseURL.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return opencorp.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithToken creates a client for the production API with an API token.
func NewWithToken(token string) (opencorp.Client, error) {
	return New(&opencorp.Config{
		APIToken: token,
	})
}

// NewWithBaseURL creates a client against another host, such as a proxy or a
// test server.
func NewWithBaseURL(baseURL, token string) (opencorp.Client, error) {
	return New(&opencorp.Config{
		BaseURL:  baseURL,
		APIToken: token,
	})
}
