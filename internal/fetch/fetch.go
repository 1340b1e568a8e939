// Package fetch defines the fetching seam shared by all crawler variants.
// Implementations live in subpackages: collyfetcher for HTML pages,
// binaryfetcher for raw payloads such as PDFs, and headless for sources that
// only render under JavaScript.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Request captures everything needed to fetch a URL.
type Request struct {
	URL     string
	Headers http.Header
}

// Response is the result returned by a Fetcher implementation. Body holds the
// raw (possibly binary) payload; for HTML fetchers it is already decoded into
// UTF-8 using the declared or detected charset.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request Request) (Response, error)
}

// DefaultUserAgent mimics a current desktop browser; several of the crawled
// archives refuse requests from obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"

// DefaultHeaders returns the browser header set sent with every request.
func DefaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      {DefaultUserAgent},
		"Accept-Language": {"tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"},
	}
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}
