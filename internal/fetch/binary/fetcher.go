// Package binaryfetcher downloads raw payloads such as PDF files. It owns the
// legacy TLS compatibility shim: some of the crawled archives sit behind
// servers that only speak old cipher suites, so a fetcher can be configured
// to relax its TLS constraints. The relaxation is scoped to the one fetcher
// instance built for that source and never becomes a process-wide default.
package binaryfetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
)

// Config controls a binary fetcher instance.
type Config struct {
	Timeout time.Duration
	// LegacyTLS lowers the minimum TLS version and admits legacy cipher
	// suites, mirroring OpenSSL's SECLEVEL=1.
	LegacyTLS bool
	// InsecureSkipVerify disables certificate and hostname verification.
	// Only set for explicitly low-trust sources.
	InsecureSkipVerify bool
}

// Fetcher performs plain HTTP GETs with the default browser headers.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

// New builds a fetcher with its own transport so TLS relaxation cannot leak
// into other connections.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tlsCfg := &tls.Config{}
	if cfg.LegacyTLS {
		tlsCfg.MinVersion = tls.VersionTLS10
		tlsCfg.CipherSuites = legacyCipherSuites()
	}
	if cfg.InsecureSkipVerify {
		tlsCfg.InsecureSkipVerify = true
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     tlsCfg,
			TLSHandshakeTimeout: 15 * time.Second,
			MaxIdleConns:        8,
			IdleConnTimeout:     30 * time.Second,
		},
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch downloads the URL and returns the raw bytes. Non-2xx responses are
// reported as *fetch.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, request fetch.Request) (fetch.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL, nil)
	if err != nil {
		return fetch.Response{}, fmt.Errorf("build request for %s: %w", request.URL, err)
	}
	for key, values := range fetch.DefaultHeaders() {
		req.Header[key] = append([]string(nil), values...)
	}
	for key, values := range request.Headers {
		req.Header[key] = append([]string(nil), values...)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return fetch.Response{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Debug("close response body", zap.String("url", request.URL), zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fetch.Response{}, &fetch.StatusError{URL: request.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetch.Response{}, fmt.Errorf("read body of %s: %w", request.URL, err)
	}

	return fetch.Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		Body:       body,
		Duration:   time.Since(start),
	}, nil
}

// HTTPFallbackURL rewrites an HTTPS URL to plain HTTP for the one-shot
// fallback some legacy sources allow after HTTPS repeatedly fails. The second
// return value is false when the URL is not HTTPS.
func HTTPFallbackURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		return "", false
	}
	return "http://" + rawURL[len("https://"):], true
}

func legacyCipherSuites() []uint16 {
	ids := make([]uint16, 0, 32)
	for _, cs := range tls.CipherSuites() {
		ids = append(ids, cs.ID)
	}
	for _, cs := range tls.InsecureCipherSuites() {
		ids = append(ids, cs.ID)
	}
	return ids
}
