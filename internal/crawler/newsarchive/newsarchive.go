// Package newsarchive crawls news archive pages. Each card on the archive
// page links to an article whose detail page is fetched for the full text.
package newsarchive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// Crawler walks an archive page of article cards and follows each card to
// its detail page.
type Crawler struct {
	crawler.Base
}

// New builds a news archive crawler for the source.
func New(src config.Source, deps crawler.Deps, opts crawler.Options) (crawler.Crawler, error) {
	fetcher := deps.HTML
	if src.Render && deps.Headless != nil {
		fetcher = deps.Headless
	}
	return &Crawler{Base: crawler.NewBase(record.KindNews, src, fetcher, deps, opts)}, nil
}

// Extract fetches the archive page and returns one record per article whose
// detail page yielded a body. Cards missing a link or a body are skipped.
func (c *Crawler) Extract(ctx context.Context, link, sourceName string) ([]record.Record, error) {
	resp, err := c.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	recs, err := c.parse(ctx, resp.Body, link)
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, c.Finalize(rec, link, sourceName))
	}
	return out, nil
}

func (c *Crawler) parse(ctx context.Context, body []byte, pageURL string) ([]record.Record, error) {
	extract := c.Source.Extract
	fields := extract.Fields
	if extract.CardCSS == "" || fields.URLAttr == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse archive page %s: %w", pageURL, err)
	}

	lang := c.Source.Lang
	if lang == "" {
		lang = config.DefaultLang
	}

	var recs []record.Record
	doc.Find(extract.CardCSS).Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find(fields.URLAttr).First().Attr("href")
		if !ok || href == "" {
			return
		}
		detailURL := crawler.ResolveURL(c.Source.Base, pageURL, href)

		title := record.Clean(strings.Join(strings.Fields(card.Find(fields.TitleCSS).First().Text()), " "))
		date := c.cardDate(card, fields.DateCSS)

		detailResp, err := c.Fetch(ctx, detailURL)
		if err != nil {
			c.Logger.Warn("article detail fetch failed, skipping", zap.String("url", detailURL), zap.Error(err))
			return
		}
		articleBody := c.articleBody(detailResp.Body, fields.FullCSS)
		if articleBody == "" {
			c.Logger.Debug("article without body, skipping", zap.String("url", detailURL))
			return
		}

		recs = append(recs, record.Record{
			Type:       string(record.KindNews),
			Lang:       lang,
			Author:     c.Source.AuthorOrDefault(),
			Title:      title,
			TextFull:   articleBody,
			Date:       date,
			Collection: extract.Collection,
			SourceURL:  detailURL,
			SourceName: c.Source.Base,
			License:    config.DefaultLicense,
			Hash:       record.NewHash(detailURL, title, articleBody),
			CreatedAt:  time.Now().UTC(),
		})
	})
	return recs, nil
}

// cardDate prefers the machine-readable datetime attribute over the
// displayed text.
func (c *Crawler) cardDate(card *goquery.Selection, dateCSS string) string {
	if dateCSS == "" {
		return ""
	}
	el := card.Find(dateCSS).First()
	if dt, ok := el.Attr("datetime"); ok && dt != "" {
		return strings.TrimSpace(dt)
	}
	return record.Clean(strings.Join(strings.Fields(el.Text()), " "))
}

func (c *Crawler) articleBody(body []byte, fullCSS string) string {
	if fullCSS == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var blocks []string
	doc.Find(fullCSS).Each(func(_ int, el *goquery.Selection) {
		if text := record.Clean(crawler.Text(el)); text != "" {
			blocks = append(blocks, text)
		}
	})
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}
