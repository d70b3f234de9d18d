// Package opencorp provides types, interfaces, and helpers for working with the
// OpenCorporates REST API.
//
// # Overview
//
// The opencorp package defines the request builder (RequestSpec, Params), the
// result types (FetchResult, MatchResult, SearchResults), the per-version
// allow-lists (VersionRegistry) and the Client interface. A concrete
// implementation is provided by the occlient package, which wires
// configuration and transport. Most consumers should import occlient to
// construct a client and then use the Client interface exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/opencorp/pkg/opencorp"
//	  "github.com/fivetwenty-io/opencorp/pkg/occlient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := occlient.New(&opencorp.Config{APIToken: "your-token"})
//	  if err != nil { log.Fatal(err) }
//
//	  results, err := cli.SearchCompanies(ctx, "Bank of England", nil)
//	  if err != nil { log.Fatal(err) }
//	  for record, err := range results.Results(ctx) {
//	    if err != nil { log.Fatal(err) }
//	    log.Println(record.String("name"))
//	  }
//	}
//
// # Building requests
//
// A RequestSpec can be built three ways, all producing the same URL:
//
//	opencorp.FromURL("https://api.opencorporates.com/v0.4/companies/search?q=kellog", opencorp.DefaultBaseURL)
//	opencorp.FromRoute("/v0.4/companies/search?q=kellog")
//	opencorp.FromParts("0.4", []string{"companies", "search"}, opencorp.NewParams("q", "Kellog"))
//
// The q parameter is lowercased with spaces replaced by '+'. Other values are
// written verbatim. The token, when set on the spec, is appended last as
// api_token.
//
// # Pagination
//
// Search requests the first page immediately and fixes Pagination from it.
// Results re-requests every page on each traversal; Page fetches one page;
// FetchPages fetches all pages concurrently and keeps page order. Configure
// Config.Cache to serve repeated traversals from memory or a NATS KV bucket.
//
// # Errors
//
// HTTP statuses are data: inspect Response.StatusCode. Errors raised before any
// request match ErrConfiguration (see IsConfigurationError). Network failures
// are *TransportError, unexpected bodies are *ParseError, and a search whose
// page is not a 200 returns *SearchError.
//
// # Interceptors and caching
//
// The package includes request/response interceptors (logging, headers,
// metrics) and a pluggable Cache abstraction. The occlient package composes
// these pieces for a sensible default client; applications with advanced
// needs can also use these primitives directly.
package opencorp
