// Package httpclient provides a configurable HTTP client with built-in
// authentication, TLS and status classification.
//
// The client performs exactly one attempt per call. Retries are a policy of
// the caller, so none are configured here.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://blobstore.service.internal",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BasicAuth("admin", "secret"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodHead,
//	    Path:   "/admin/cc-packages/abc",
//	})
package httpclient
