package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RequestedAtIsUTC(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("timezone database not available")
	}

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, paris)
	client := NewClient(withClock(func() time.Time { return fixed }))

	resp, err := client.Get(context.Background(), server.URL+"/v0.4/companies/gb/1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), resp.RequestedAt)
}

func TestToFieldsRedactsURL(t *testing.T) {
	t.Parallel()

	fields := toFields([]interface{}{"method", "GET", "url", "https://api.opencorporates.com/v0.4/companies/gb/1?api_token=secret", 7, "x"})

	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "https://api.opencorporates.com/v0.4/companies/gb/1?api_token=***", fields["url"])
	assert.Equal(t, "x", fields["7"])
}
