// Package occlient provides the primary entry point for constructing an
// OpenCorporates API client that implements the opencorp.Client interface.
//
// It normalizes configuration and wires the HTTP transport on top of the
// types and interfaces defined in the opencorp package. Most applications
// should import occlient to build a client, then use the returned
// opencorp.Client to search, fetch and match.
//
// Quick start
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
//
//	  // Anonymous access to the production API, version 0.4.
//	  cli, err := occlient.New(&opencorp.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an API token:
//	  cli, err = occlient.NewWithToken("your-token")
//	  if err != nil { log.Fatal(err) }
//
//	  company, err := cli.FetchCompany(ctx, "gb", "00102498")
//	  if err != nil { log.Fatal(err) }
//	  if company.Found {
//	    log.Println(company.Record.String("name"))
//	  }
//	}
//
// Configuration notes
//
//   - BaseURL may omit the scheme ("api.opencorporates.com"); https is assumed.
//   - APIVersion accepts "0.4" or "v0.4" and defaults to opencorp.DefaultVersion.
//   - Requests are never retried unless RetryMax is set.
//   - Search pages are re-fetched on every traversal unless Cache is set.
package occlient
