package client_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/fivetwenty-io/opencorp/internal/client"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a small slice of the OpenCorporates API.
type fakeAPI struct {
	server     *httptest.Server
	totalCount int
	perPage    int
	calls      atomic.Int32

	mutex   sync.Mutex
	queries []string
	// failPage makes that search page return 500 when non-zero.
	failPage int
	delay    time.Duration
	// gate holds search requests for page 2 onward until it is closed.
	gate chan struct{}

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeAPI(t *testing.T, totalCount, perPage int, opts ...func(*fakeAPI)) *fakeAPI {
	t.Helper()

	api := &fakeAPI{totalCount: totalCount, perPage: perPage}
	for _, opt := range opts {
		opt(api)
	}

	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)

	return api
}

func (a *fakeAPI) totalPages() int {
	if a.perPage == 0 {
		return 0
	}

	return (a.totalCount + a.perPage - 1) / a.perPage
}

func (a *fakeAPI) recordedQueries() []string {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return append([]string(nil), a.queries...)
}

func (a *fakeAPI) handle(writer http.ResponseWriter, request *http.Request) {
	a.calls.Add(1)

	current := a.inFlight.Add(1)
	defer a.inFlight.Add(-1)

	for {
		seen := a.maxInFlight.Load()
		if current <= seen || a.maxInFlight.CompareAndSwap(seen, current) {
			break
		}
	}

	if a.gate != nil && request.URL.Query().Get("page") != "" {
		<-a.gate
	}

	if a.delay > 0 {
		time.Sleep(a.delay)
	}

	a.mutex.Lock()
	a.queries = append(a.queries, request.URL.RawQuery)
	a.mutex.Unlock()

	switch request.URL.Path {
	case "/v0.4/companies/search":
		a.search(writer, request)
	case "/v0.4/companies/gb/00102498":
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"api_version": "0.4",
			"results": map[string]interface{}{
				"company": map[string]interface{}{
					"name":              "BP P.L.C.",
					"company_number":    "00102498",
					"jurisdiction_code": "gb",
				},
			},
		})
	case "/v0.4/companies/gb/empty":
		writeJSON(writer, http.StatusOK, map[string]interface{}{"results": map[string]interface{}{}})
	case "/v0.4/companies/gb/garbled":
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("<html>maintenance</html>"))
	case "/v0.4/officers/123456":
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"results": map[string]interface{}{
				"officer": map[string]interface{}{"id": float64(123456), "name": "JANE DOE"},
			},
		})
	case "/v0.4/companies/gb/multi":
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"results": map[string]interface{}{
				"company": map[string]interface{}{"name": "BP P.L.C."},
				"meta":    map[string]interface{}{"x": 1},
			},
		})
	case "/v0.4/companies/gb/scalar":
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"results": map[string]interface{}{"company": "BP P.L.C."},
		})
	case "/v0.4/jurisdictions/match":
		a.match(writer, request)
	default:
		writeJSON(writer, http.StatusNotFound, map[string]interface{}{
			"error": map[string]interface{}{"message": "Not found"},
		})
	}
}

func (a *fakeAPI) search(writer http.ResponseWriter, request *http.Request) {
	if request.URL.Query().Get("q") == "" {
		writeJSON(writer, http.StatusBadRequest, map[string]interface{}{"error": "q required"})

		return
	}

	page := 1

	if raw := request.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		page = parsed
	}

	if a.failPage != 0 && page == a.failPage && request.URL.Query().Has("page") {
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	companies := []interface{}{}

	for index := (page - 1) * a.perPage; index < page*a.perPage && index < a.totalCount; index++ {
		companies = append(companies, map[string]interface{}{
			"company": map[string]interface{}{
				"name":           fmt.Sprintf("Company %d", index+1),
				"company_number": strconv.Itoa(index + 1),
			},
		})
	}

	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"results": map[string]interface{}{
			"companies":   companies,
			"page":        page,
			"per_page":    a.perPage,
			"total_pages": a.totalPages(),
			"total_count": a.totalCount,
		},
	})
}

// match answers a lone match with a single envelope, as the provider does,
// and "georgia" with a list of candidates.
func (a *fakeAPI) match(writer http.ResponseWriter, request *http.Request) {
	switch request.URL.Query().Get("q") {
	case "georgia":
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"results": map[string]interface{}{
				"jurisdictions": []interface{}{
					map[string]interface{}{"jurisdiction": map[string]interface{}{"code": "us_ga", "name": "Georgia (US)"}},
					map[string]interface{}{"jurisdiction": map[string]interface{}{"code": "ge", "name": "Georgia"}},
				},
			},
		})
	case "nowhere":
		writeJSON(writer, http.StatusOK, map[string]interface{}{"results": map[string]interface{}{}})
	case "garbled":
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"results": map[string]interface{}{"jurisdiction": "us_de", "score": 1},
		})
	default:
		writeJSON(writer, http.StatusOK, map[string]interface{}{
			"results": map[string]interface{}{
				"jurisdiction": map[string]interface{}{"code": "us_de", "name": "Delaware (US)"},
			},
		})
	}
}

func writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func newTestClient(t *testing.T, baseURL string, mutate ...func(*opencorp.Config)) *Client {
	t.Helper()

	config := &opencorp.Config{
		BaseURL:  baseURL,
		APIToken: "test-token",
	}

	for _, fn := range mutate {
		fn(config)
	}

	client, err := New(config)
	require.NoError(t, err)

	return client
}
