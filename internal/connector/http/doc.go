// Package http provides the outbound HTTP transport used by the gateway
// connectors.
//
// The client is thin: it sends one request (behind an optional rate
// limiter, off by default) and hands back the status, headers and fully
// read body. It never retries and
// never follows redirects for methods other than GET and HEAD, so callers
// that implement their own redirect protocols (the HttpFS create-file
// handshake) see the 307 response themselves.
//
// Structure:
//
//	client.go     - HTTP client with opt-in rate limiting
//	errors.go     - HTTP status errors
package http
