package client

import (
	"context"
	"net/http"
	"time"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// getCached serves a search page from the configured cache, falling back to
// the network. Only 200 bodies are stored.
func (c *Client) getCached(ctx context.Context, requestURL string) (*opencorp.Response, error) {
	if c.cache == nil {
		return c.httpClient.Get(ctx, requestURL)
	}

	key := opencorp.CacheKey(requestURL)

	entry, err := c.cache.Get(ctx, key)
	if err == nil {
		c.debug("Cache hit", map[string]interface{}{"url": opencorp.RedactURL(requestURL)})

		return &opencorp.Response{
			URL:         requestURL,
			StatusCode:  http.StatusOK,
			Body:        entry.Data,
			RequestedAt: entry.StoredAt,
		}, nil
	}

	resp, err := c.httpClient.Get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		now := time.Now().UTC()

		setErr := c.cache.Set(ctx, key, &opencorp.CacheEntry{
			Data:      resp.Body,
			StoredAt:  resp.RequestedAt,
			ExpiresAt: now.Add(c.cacheTTL),
		})
		if setErr != nil && c.logger != nil {
			c.logger.Warn("Failed to cache search page", map[string]interface{}{
				"url":   opencorp.RedactURL(requestURL),
				"error": setErr.Error(),
			})
		}
	}

	return resp, nil
}

func (c *Client) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
