// Package newsdata provides a client for the NewsData.io REST API.
//
// # Overview
//
// The client is layered:
//
//   - [Client]: named operations ([Client.LatestNews], [Client.Archive],
//     [Client.Sources], [Client.Crypto]) that each GET a fixed path
//   - [Engine]: the retry loop, body decoding and the [Response] record
//   - [Transport]: one HTTP exchange; [HTTPTransport] is the default
//
// # Usage
//
//	client, err := newsdata.NewClient(os.Getenv("NEWSDATA_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	body, err := client.LatestNews(ctx, newsdata.Params{"q": "ronaldo", "country": "ie"})
//	if err != nil {
//	    log.Fatal(err) // transport failure or undecodable body
//	}
//	fmt.Println(client.LastResponse().StatusCode)
//
// # Configuration
//
// [Config] is an immutable value. Start from [DefaultConfig] and derive
// variants with the With* methods:
//
//	cfg := newsdata.DefaultConfig(key).
//	    WithTimeouts(10*time.Second, 30*time.Second).
//	    WithRetries(3, 2*time.Second).
//	    WithProxy(newsdata.Proxy{Host: "proxy.internal", Port: 3128})
//	client, err := newsdata.New(cfg)
//
// # Errors
//
// Only failures below HTTP are errors: they come back as *[TransportError]
// and are never retried. HTTP error statuses are ordinary results; use
// [Client.LastResponse] or [CheckResponse] to inspect them. Status codes
// >= 500 are retried when [Config.MaxRetries] is positive, with a fixed
// [Config.RetryDelay] between attempts.
//
// Bodies that are not valid JSON yield an error with code DECODE_ERROR;
// the raw bytes remain in [Response.Raw].
//
// # Concurrency
//
// Calls are synchronous. A Client may be used from several goroutines,
// but [Client.LastResponse] then reports whichever call finished last.
package newsdata
