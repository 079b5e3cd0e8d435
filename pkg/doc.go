// Package pkg holds the public libraries of newsdata-go, a client for the
// NewsData.io REST API.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [newsdata] - The client: query encoding, transport, retry engine and
//     the endpoint operations (latest news, archive, sources, crypto)
//  2. [httputil] - Retry policy and the bounded retry loop
//  3. [errors] - Coded errors and input validation
//  4. [observability] - Hooks for HTTP and retry events
//  5. [buildinfo] - Version information injected at build time
//
// # Architecture
//
// A call flows through the layers like this:
//
//	Client.LatestNews(params)
//	         ↓
//	    [newsdata] Engine (retry loop from [httputil])
//	         ↓
//	    [newsdata] Transport (one HTTP exchange per attempt)
//	         ↓
//	    Response record + decoded JSON body
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/newsdataio/newsdata-go/pkg/newsdata"
//	)
//
//	client, err := newsdata.NewClient("pub_xxx")
//	if err != nil {
//	    return err
//	}
//	body, err := client.LatestNews(ctx, newsdata.Params{"q": "ronaldo", "country": "ie"})
//
// [newsdata]: https://pkg.go.dev/github.com/newsdataio/newsdata-go/pkg/newsdata
// [httputil]: https://pkg.go.dev/github.com/newsdataio/newsdata-go/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/newsdataio/newsdata-go/pkg/errors
// [observability]: https://pkg.go.dev/github.com/newsdataio/newsdata-go/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/newsdataio/newsdata-go/pkg/buildinfo
package pkg
