package client

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
)

// request implements opencorp.Request. It is safe for concurrent use.
type request struct {
	client  *Client
	spec    *opencorp.RequestSpec
	url     string
	mutex   sync.Mutex
	history []*opencorp.Response
}

func newRequest(client *Client, spec *opencorp.RequestSpec) *request {
	return &request{
		client: client,
		spec:   spec,
		url:    spec.URL(client.baseURL),
	}
}

func (r *request) Spec() *opencorp.RequestSpec { return r.spec }

func (r *request) URL() string { return r.url }

// Response returns the latest response, issuing the call on first use.
func (r *request) Response(ctx context.Context) (*opencorp.Response, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.history) > 0 {
		return r.history[len(r.history)-1], nil
	}

	return r.issue(ctx)
}

// Refresh always issues the call.
func (r *request) Refresh(ctx context.Context) (*opencorp.Response, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.issue(ctx)
}

// History returns every response in the order received.
func (r *request) History() []*opencorp.Response {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return append([]*opencorp.Response(nil), r.history...)
}

// issue must be called with the mutex held.
func (r *request) issue(ctx context.Context) (*opencorp.Response, error) {
	resp, err := r.client.httpClient.Get(ctx, r.url)
	if err != nil {
		return nil, err
	}

	r.history = append(r.history, resp)

	return resp, nil
}
