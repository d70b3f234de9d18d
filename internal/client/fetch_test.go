package client_test

import (
	"context"
	"testing"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("unwraps the record", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		result, err := client.FetchCompany(context.Background(), "gb", "00102498")
		require.NoError(t, err)

		assert.True(t, result.Found)
		assert.Equal(t, "BP P.L.C.", result.Record.String("name"))
		assert.Equal(t, "gb", result.Record.String("jurisdiction_code"))
		assert.Equal(t, opencorp.TypeCompanies, result.ObjectType)
		assert.Equal(t, api.server.URL+"/v0.4/companies/gb/00102498?api_token=test-token", result.URL)
		assert.Equal(t, 200, result.Response.StatusCode)
		assert.Equal(t, []string{"api_token=test-token"}, api.recordedQueries())
	})

	t.Run("not found is absent with status", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		result, err := client.FetchCompany(context.Background(), "gb", "00101498")
		require.NoError(t, err)

		assert.False(t, result.Found)
		assert.Nil(t, result.Record)
		assert.Equal(t, 404, result.Response.StatusCode)
	})

	t.Run("empty results container is absent", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		result, err := client.Fetch(context.Background(), opencorp.TypeCompanies, "gb", "empty")
		require.NoError(t, err)

		assert.False(t, result.Found)
		assert.Nil(t, result.Record)
		assert.Equal(t, 200, result.Response.StatusCode)
	})

	t.Run("malformed 200 body is a parse error", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		_, err := client.Fetch(context.Background(), opencorp.TypeCompanies, "gb", "garbled")
		require.Error(t, err)
		assert.True(t, opencorp.IsParseError(err))
	})

	t.Run("results with extra keys is a parse error", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		result, err := client.FetchCompany(context.Background(), "gb", "multi")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, opencorp.IsParseError(err))
		assert.Contains(t, err.Error(), `"results" has 2 keys`)
	})

	t.Run("non-object record is a parse error", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		result, err := client.FetchCompany(context.Background(), "gb", "scalar")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, opencorp.IsParseError(err))
		assert.Contains(t, err.Error(), `"company" is not an object`)
	})

	t.Run("officer by id", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		result, err := client.FetchOfficer(context.Background(), "123456")
		require.NoError(t, err)

		assert.True(t, result.Found)
		assert.Equal(t, "JANE DOE", result.Record.String("name"))
		assert.InDelta(t, 123456, result.Record["id"], 0)
	})

	t.Run("extra params are sent before the token", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL)

		_, err := client.FetchWithParams(context.Background(), opencorp.TypeCompanies,
			[]string{"gb", "00102498"}, opencorp.NewParams("sparse", "true"))
		require.NoError(t, err)
		assert.Equal(t, []string{"sparse=true&api_token=test-token"}, api.recordedQueries())
	})

	t.Run("no token configured", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, 0, 10)
		client := newTestClient(t, api.server.URL, func(config *opencorp.Config) {
			config.APIToken = ""
		})

		result, err := client.FetchCompany(context.Background(), "gb", "00102498")
		require.NoError(t, err)
		assert.Equal(t, api.server.URL+"/v0.4/companies/gb/00102498", result.URL)
	})
}
