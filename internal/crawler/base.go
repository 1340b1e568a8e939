package crawler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
	"github.com/ozanunsal/hikmet-crawler/internal/metrics"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// Base carries the state and behavior shared by every crawler variant.
// Concrete crawlers embed it and add their parse logic on top.
type Base struct {
	Kind     record.Kind
	Source   config.Source
	Fetcher  fetch.Fetcher
	Retry    RetryPolicy
	Archive  BlobStore
	SafeMode bool
	Logger   *zap.Logger
}

// NewBase assembles a Base from a source configuration, applying per-source
// retry overrides on top of the defaults.
func NewBase(kind record.Kind, src config.Source, fetcher fetch.Fetcher, deps Deps, opts Options) Base {
	policy := DefaultRetryPolicy()
	if src.FetchRetries > 0 {
		policy.MaxAttempts = src.FetchRetries
	}
	if src.BackoffBase > 0 {
		policy.BackoffBase = src.BackoffBase
	}
	if src.BackoffFactor > 0 {
		policy.BackoffFactor = src.BackoffFactor
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Base{
		Kind:     kind,
		Source:   src,
		Fetcher:  fetcher,
		Retry:    policy,
		Archive:  deps.Archive,
		SafeMode: opts.SafeMode,
		Logger:   logger.With(zap.String("source", src.Name), zap.String("kind", string(kind))),
	}
}

// Links returns the ordered seed URLs for the crawler: the explicit seeds
// list when present, otherwise a single-element list from list_url, url, or
// base, otherwise nothing.
func (b *Base) Links() []string {
	var links []string
	for _, seed := range b.Source.Seeds {
		if seed != "" {
			links = append(links, seed)
		}
	}
	if len(links) > 0 {
		return links
	}
	for _, fallback := range []string{b.Source.ListURL, b.Source.URL, b.Source.Base} {
		if fallback != "" {
			return []string{fallback}
		}
	}
	return nil
}

// Fetch retrieves a URL through the configured fetcher, retrying with
// exponential backoff. Context cancellation aborts both the attempt in
// flight and any remaining waits. Successful payloads are archived when an
// archive store is configured.
func (b *Base) Fetch(ctx context.Context, url string) (fetch.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= b.Retry.MaxAttempts; attempt++ {
		resp, err := b.Fetcher.Fetch(ctx, fetch.Request{URL: url})
		if err == nil {
			metrics.ObservePage(b.Source.Name, "ok")
			metrics.ObserveFetchDuration(b.Source.Name, resp.Duration)
			b.archive(ctx, url, resp)
			return resp, nil
		}
		metrics.ObservePage(b.Source.Name, "error")
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if attempt == b.Retry.MaxAttempts {
			break
		}
		wait := b.Retry.Backoff(attempt)
		b.Logger.Warn("fetch failed, backing off",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", b.Retry.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return fetch.Response{}, ctx.Err()
		case <-time.After(wait):
		}
	}
	return fetch.Response{}, &FetchError{URL: url, Attempts: b.Retry.MaxAttempts, Err: lastErr}
}

// Finalize stamps crawler-level metadata onto a parsed record and applies
// safe-mode redaction. Every record leaves the crawler through here.
func (b *Base) Finalize(rec record.Record, link, sourceName string) record.Record {
	if rec.Kind == "" {
		rec.Kind = b.Kind
	}
	if rec.SourceURL == "" {
		rec.SourceURL = link
	}
	if rec.SourceName == "" && sourceName != "" {
		rec.SourceName = sourceName
	}
	rec.SafeMode = b.SafeMode
	return b.applySafeMode(rec)
}

// Close implements Crawler; crawlers owning stateful resources override it.
func (b *Base) Close() error {
	return nil
}

// safeModeExcerptLen is the number of characters of text_full kept as the
// summary when safe mode redacts a record.
const safeModeExcerptLen = 250

func (b *Base) applySafeMode(rec record.Record) record.Record {
	if !b.SafeMode || rec.TextFull == "" {
		return rec
	}
	runes := []rune(rec.TextFull)
	if len(runes) > safeModeExcerptLen {
		runes = runes[:safeModeExcerptLen]
	}
	rec.Summary = string(runes)
	rec.TextFull = ""
	return rec
}

func (b *Base) archive(ctx context.Context, url string, resp fetch.Response) {
	if b.Archive == nil || len(resp.Body) == 0 {
		return
	}
	sum := sha256.Sum256(resp.Body)
	path := fmt.Sprintf("%s/%s", b.Source.Name, hex.EncodeToString(sum[:]))
	contentType := resp.Headers.Get("Content-Type")
	if _, err := b.Archive.PutObject(ctx, path, contentType, resp.Body); err != nil {
		b.Logger.Warn("archive payload failed", zap.String("url", url), zap.Error(err))
	}
}
