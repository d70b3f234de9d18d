package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

type apiStub struct {
	server *httptest.Server

	mutex   sync.Mutex
	queries []string
}

// newAPIStub serves 5 companies at 2 per page, BP under gb/00102498 and 404
// for everything else.
func newAPIStub(t *testing.T) *apiStub {
	t.Helper()

	stub := &apiStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		stub.mutex.Lock()
		stub.queries = append(stub.queries, request.URL.Path+"?"+request.URL.RawQuery)
		stub.mutex.Unlock()

		writer.Header().Set("Content-Type", "application/json")

		switch request.URL.Path {
		case "/v0.4/companies/search":
			page, _ := strconv.Atoi(request.URL.Query().Get("page"))
			page = max(page, 1)

			var companies []interface{}

			for index := (page - 1) * 2; index < page*2 && index < 5; index++ {
				companies = append(companies, map[string]interface{}{
					"company": map[string]interface{}{"name": fmt.Sprintf("Company %d", index+1), "company_number": strconv.Itoa(index + 1)},
				})
			}

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"results": map[string]interface{}{
					"companies": companies, "page": page, "per_page": 2, "total_pages": 3, "total_count": 5,
				},
			})
		case "/v0.4/companies/gb/00102498":
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"results": map[string]interface{}{
					"company": map[string]interface{}{"name": "BP P.L.C.", "company_number": "00102498", "jurisdiction_code": "gb"},
				},
			})
		case "/v0.4/jurisdictions/match":
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"results": map[string]interface{}{
					"jurisdiction": map[string]interface{}{"code": "us_de", "name": "Delaware (US)"},
				},
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"error":{"message":"Not found"}}`))
		}
	}))
	t.Cleanup(stub.server.Close)

	return stub
}

func (s *apiStub) recorded() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]string(nil), s.queries...)
}

// useConfig resets the global viper state for one test.
func useConfig(t *testing.T, values map[string]interface{}) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	for key, value := range values {
		viper.Set(key, value)
	}
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestSearchCommand_JSON(t *testing.T) {
	stub := newAPIStub(t)
	useConfig(t, map[string]interface{}{KeyAPIURL: stub.server.URL, KeyToken: "tok", KeyOutput: constants.FormatJSON})

	out, err := execute(NewSearchCommand(), "companies", "Acme", "Widgets", "--param", "jurisdiction_code=gb", "--page", "2")
	require.NoError(t, err)

	var decoded struct {
		URL        string              `json:"url"`
		Page       int                 `json:"page"`
		Pagination opencorp.Pagination `json:"pagination"`
		Records    []opencorp.Record   `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, stub.server.URL+"/v0.4/companies/search?jurisdiction_code=gb&q=acme+widgets&api_token=***", decoded.URL)
	assert.Equal(t, 2, decoded.Page)
	assert.Equal(t, opencorp.Pagination{PerPage: 2, TotalPages: 3, TotalCount: 5}, decoded.Pagination)
	require.Len(t, decoded.Records, 2)
	assert.Equal(t, "Company 3", decoded.Records[0].String("name"))

	assert.Equal(t, []string{
		"/v0.4/companies/search?jurisdiction_code=gb&q=acme+widgets&api_token=tok",
		"/v0.4/companies/search?jurisdiction_code=gb&q=acme+widgets&api_token=tok&page=2",
	}, stub.recorded())
}

func TestSearchCommand_AllTable(t *testing.T) {
	stub := newAPIStub(t)
	useConfig(t, map[string]interface{}{KeyAPIURL: stub.server.URL})

	out, err := execute(NewSearchCommand(), "companies", "acme", "--all", "--concurrency", "2", "--cache", "memory")
	require.NoError(t, err)

	assert.Contains(t, out, `Found 5 companies matching "acme"`)
	assert.NotContains(t, out, "(page")

	for i := 1; i <= 5; i++ {
		assert.Contains(t, out, fmt.Sprintf("Company %d", i))
	}

	assert.Len(t, stub.recorded(), 4)
}

func TestSearchCommand_Validation(t *testing.T) {
	stub := newAPIStub(t)
	useConfig(t, map[string]interface{}{KeyAPIURL: stub.server.URL})

	_, err := execute(NewSearchCommand(), "companies", "acme", "--all", "--page", "2")
	require.ErrorIs(t, err, constants.ErrPageAndAllExclusive)

	_, err = execute(NewSearchCommand(), "companies", "acme", "--concurrency", "0")
	require.ErrorIs(t, err, constants.ErrInvalidConcurrency)

	_, err = execute(NewSearchCommand(), "companies", "acme", "--param", "broken")
	require.ErrorIs(t, err, constants.ErrInvalidParam)

	_, err = execute(NewSearchCommand(), "companies", "acme", "--cache", "nats")
	require.ErrorIs(t, err, constants.ErrNATSURLNotConfigured)

	_, err = execute(NewSearchCommand(), "filings", "acme")
	require.ErrorIs(t, err, opencorp.ErrUnsupportedType)

	_, err = execute(NewSearchCommand(), "companies", "acme", "--page", "9")
	require.ErrorIs(t, err, opencorp.ErrPageOutOfRange)

	viper.Set(KeyOutput, "xml")

	_, err = execute(NewSearchCommand(), "companies", "acme")
	require.ErrorIs(t, err, constants.ErrInvalidOutputFormat)

	// Only the out-of-range run reached the API.
	assert.Len(t, stub.recorded(), 1)
}

func TestFetchCommand(t *testing.T) {
	stub := newAPIStub(t)
	useConfig(t, map[string]interface{}{KeyAPIURL: stub.server.URL, KeyOutput: constants.FormatYAML})

	out, err := execute(NewFetchCommand(), "companies", "gb", "00102498")
	require.NoError(t, err)
	assert.Contains(t, out, "name: BP P.L.C.")
	assert.Contains(t, out, "00102498")

	_, err = execute(NewFetchCommand(), "companies", "gb", "00101498")
	require.ErrorIs(t, err, constants.ErrNotFound)
	assert.Contains(t, err.Error(), "status 404")
}

func TestMatchCommand(t *testing.T) {
	stub := newAPIStub(t)
	useConfig(t, map[string]interface{}{KeyAPIURL: stub.server.URL, KeyToken: "tok"})

	out, err := execute(NewMatchCommand(), "jurisdictions", "delaware", "us")
	require.NoError(t, err)
	assert.Contains(t, out, "us_de")
	assert.Contains(t, out, "Delaware (US)")
	assert.Equal(t, []string{"/v0.4/jurisdictions/match?q=delaware+us&api_token=tok"}, stub.recorded())
}

func TestGetCommand(t *testing.T) {
	stub := newAPIStub(t)
	useConfig(t, map[string]interface{}{KeyAPIURL: stub.server.URL, KeyToken: "tok"})

	out, err := execute(NewGetCommand(), "/v0.4/companies/gb/00102498", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, `"BP P.L.C."`)

	out, err = execute(NewGetCommand(), stub.server.URL+"/v0.4/companies/gb/00101498?api_token=other")
	require.NoError(t, err)
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "api_token=***")
	assert.Contains(t, out, "Not found")

	_, err = execute(NewGetCommand(), "companies/gb/00102498")
	require.ErrorIs(t, err, opencorp.ErrMalformedRoute)

	assert.Equal(t, []string{
		"/v0.4/companies/gb/00102498?api_token=tok",
		"/v0.4/companies/gb/00101498?api_token=other",
	}, stub.recorded())
}

func TestVersionCommands(t *testing.T) {
	useConfig(t, map[string]interface{}{KeyOutput: constants.FormatJSON})

	out, err := execute(NewVersionCommand("1.2.3", "abc", "today"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.2.3","commit":"abc","built":"today"}`, out)

	out, err = execute(NewVersionsCommand())
	require.NoError(t, err)

	var versions []opencorp.Version
	require.NoError(t, json.Unmarshal([]byte(out), &versions))
	require.Len(t, versions, 1)
	assert.Equal(t, "0.4", versions[0].ID)
	assert.Contains(t, versions[0].MatchTypes, "jurisdictions")
}

func TestConfigCommands(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yml")

	useConfig(t, nil)
	viper.SetConfigFile(configFile)

	_, err := execute(NewConfigCommand(), "set", "output", "json")
	require.NoError(t, err)

	out, err := execute(NewConfigCommand(), "set", "token", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Set token = ***\n", out)

	_, err = execute(NewConfigCommand(), "set", "retries", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output: json")
	assert.Contains(t, string(data), "token: secret")
	assert.Contains(t, string(data), "retries: 2")

	out, err = execute(NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"token": "***"`)
	assert.NotContains(t, out, "secret")

	_, err = execute(NewConfigCommand(), "unset", "token")
	require.NoError(t, err)

	data, err = os.ReadFile(configFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "token")

	_, err = execute(NewConfigCommand(), "set", "colour", "red")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)

	_, err = execute(NewConfigCommand(), "set", "output", "xml")
	require.ErrorIs(t, err, constants.ErrInvalidOutputFormat)

	_, err = execute(NewConfigCommand(), "set", "retries", "many")
	require.ErrorIs(t, err, constants.ErrInvalidConfigValue)

	_, err = execute(NewConfigCommand(), "set", "api_version", "0.3")
	require.ErrorIs(t, err, opencorp.ErrUnknownVersion)

	_, err = execute(NewConfigCommand(), "set", "cache", "redis")
	require.ErrorIs(t, err, opencorp.ErrUnsupportedCacheType)
}

func TestConfigSetToken_NonInteractive(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}

	useConfig(t, nil)
	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yml"))

	_, err := execute(NewConfigCommand(), "set-token")
	require.ErrorIs(t, err, constants.ErrNonInteractiveNoToken)

	_, err = execute(NewConfigCommand(), "set-token", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", viper.GetString(KeyToken))
}
