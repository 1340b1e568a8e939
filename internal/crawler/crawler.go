// Package crawler defines the shared crawler contract, the retry policy, and
// the registry used to dispatch source configurations to implementations.
// Concrete crawlers live in subpackages and embed Base for the common
// behavior: seed enumeration, fetch-with-retry, payload finalization, and
// safe-mode redaction.
package crawler

import (
	"context"

	"go.uber.org/zap"

	binaryfetcher "github.com/ozanunsal/hikmet-crawler/internal/fetch/binary"

	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// Crawler is the behavior every source type implements. Links enumerates the
// configured seed URLs in order; Extract fetches one link and returns zero or
// more finalized raw records; Close releases any held resources.
type Crawler interface {
	Links() []string
	Extract(ctx context.Context, link, sourceName string) ([]record.Record, error)
	Close() error
}

// BlobStore archives raw fetched payloads and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Deps carries the shared collaborators handed to crawler factories. The
// binary fetcher is built per source because its TLS relaxation settings come
// from the source configuration and must never outlive it.
type Deps struct {
	HTML      fetch.Fetcher
	Headless  fetch.Fetcher
	NewBinary func(cfg binaryfetcher.Config) fetch.Fetcher
	Archive   BlobStore
	Logger    *zap.Logger
}

// Options are the per-instantiation knobs resolved by the pipeline.
type Options struct {
	SafeMode bool
}
