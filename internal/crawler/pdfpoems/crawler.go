// Package pdfpoems extracts individual works from anthology PDFs. The source
// documents are scans of decades-old typesetting with broken font encodings,
// running headers on every page, and no structural markers, so extraction is
// a pipeline of repairs: glyph fixup, header suppression, then typographic
// title detection to split the line stream into works.
package pdfpoems

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
	binaryfetcher "github.com/ozanunsal/hikmet-crawler/internal/fetch/binary"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

const defaultPDFTimeout = 60 * time.Second

// Crawler downloads anthology PDFs and segments them into work records. It
// keeps a per-instance set of emitted hashes because the same work often
// appears in more than one anthology of a source.
type Crawler struct {
	crawler.Base
	seen map[string]struct{}
}

// New builds a PDF crawler. The binary fetcher is constructed per source so
// the TLS relaxation some legacy hosts need stays scoped to this source.
func New(src config.Source, deps crawler.Deps, opts crawler.Options) (crawler.Crawler, error) {
	cfg := binaryfetcher.Config{
		Timeout:            src.FetchTimeout,
		LegacyTLS:          src.LegacyTLS,
		InsecureSkipVerify: src.SkipTLSVerify(),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPDFTimeout
	}
	var fetcher fetch.Fetcher
	if deps.NewBinary != nil {
		fetcher = deps.NewBinary(cfg)
	} else {
		fetcher = binaryfetcher.New(cfg, deps.Logger)
	}
	return &Crawler{
		Base: crawler.NewBase(record.KindPDFPoems, src, fetcher, deps, opts),
		seen: make(map[string]struct{}),
	}, nil
}

// Extract downloads the PDF at link and returns one record per segmented
// work, skipping hashes already emitted by this crawler instance.
func (c *Crawler) Extract(ctx context.Context, link, sourceName string) ([]record.Record, error) {
	body, err := c.fetchPDF(ctx, link)
	if err != nil {
		return nil, err
	}

	pages, err := extractPages(body)
	if err != nil {
		c.Logger.Warn("could not read pdf", zap.String("url", link), zap.Error(err))
		return nil, nil
	}

	works := c.splitWorks(collectLines(pages), link)
	out := make([]record.Record, 0, len(works))
	for _, work := range works {
		if work.Hash != "" {
			if _, dup := c.seen[work.Hash]; dup {
				continue
			}
			c.seen[work.Hash] = struct{}{}
		}
		out = append(out, c.Finalize(work, link, sourceName))
	}
	if len(out) > 0 {
		c.Logger.Info("extracted works from pdf", zap.String("url", link), zap.Int("count", len(out)))
	}
	return out, nil
}

// fetchPDF downloads the document, retrying per the source policy. When every
// HTTPS attempt fails and the source allows it, one plain-HTTP attempt is
// made before giving up.
func (c *Crawler) fetchPDF(ctx context.Context, link string) ([]byte, error) {
	resp, err := c.Fetch(ctx, link)
	if err == nil {
		return resp.Body, nil
	}
	if !c.Source.AllowHTTPFallback {
		return nil, err
	}
	fallback, ok := binaryfetcher.HTTPFallbackURL(link)
	if !ok {
		return nil, err
	}
	c.Logger.Warn("https download failed, attempting http fallback",
		zap.String("url", link),
		zap.String("fallback_url", fallback),
		zap.Error(err),
	)
	resp, ferr := c.Fetch(ctx, fallback)
	if ferr != nil {
		return nil, err
	}
	return resp.Body, nil
}
