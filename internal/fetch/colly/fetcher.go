// Package collyfetcher implements fetch.Fetcher for HTML pages using the
// Colly collector. Colly handles charset detection, so pages served without a
// declared encoding still come back as UTF-8.
package collyfetcher

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
)

// Config controls the HTML fetcher.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher fetches HTML pages through a shared base collector; each Fetch
// clones the collector so requests stay isolated.
type Fetcher struct {
	base   *colly.Collector
	logger *zap.Logger
}

// New constructs a configured Colly-based fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetch.DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.DetectCharset(),
		colly.IgnoreRobotsTxt(),
	)
	// Retries refetch the same URL, so revisits must be allowed.
	base.AllowURLRevisit = true
	base.SetRequestTimeout(cfg.Timeout)
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})

	return &Fetcher{base: base, logger: logger}
}

// Fetch retrieves a page and returns its decoded body. Non-2xx responses are
// reported as *fetch.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, request fetch.Request) (fetch.Response, error) {
	collector := f.base.Clone()

	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnRequest(func(r *colly.Request) {
		for key, values := range fetch.DefaultHeaders() {
			if r.Headers.Get(key) == "" {
				for _, v := range values {
					r.Headers.Add(key, v)
				}
			}
		}
		for key, values := range request.Headers {
			for _, v := range values {
				r.Headers.Set(key, v)
			}
		}
	})

	start := time.Now()
	collector.OnResponse(func(r *colly.Response) {
		headers := http.Header{}
		if r.Headers != nil {
			for k, v := range *r.Headers {
				headers[k] = append([]string(nil), v...)
			}
		}
		send(fetchResult{response: fetch.Response{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			send(fetchResult{err: &fetch.StatusError{URL: request.URL, StatusCode: r.StatusCode}})
			return
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	visitErr := collector.Visit(request.URL)
	collector.Wait()

	// Visit reports request failures with colly's own error values; the
	// handler result carries the typed error, so it wins when both exist.
	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return fetch.Response{}, err
		}
		return res.response, res.err
	default:
	}
	if visitErr != nil {
		return fetch.Response{}, visitErr
	}
	return fetch.Response{}, errors.New("colly fetch produced no result")
}

type fetchResult struct {
	response fetch.Response
	err      error
}
