// Package wikilist crawls curated list pages where each list item names a
// work and, optionally, its publication year. List entries carry no body
// text, so no secondary fetch is needed.
package wikilist

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// Crawler extracts structured work entries from a single list page. The same
// implementation serves the poem, book, play, and novel kinds.
type Crawler struct {
	crawler.Base
	yearRE *regexp.Regexp
}

// NewFactory returns a crawler factory emitting records of the given kind.
func NewFactory(kind record.Kind) crawler.Factory {
	return func(src config.Source, deps crawler.Deps, opts crawler.Options) (crawler.Crawler, error) {
		fetcher := deps.HTML
		if src.Render && deps.Headless != nil {
			fetcher = deps.Headless
		}
		var yearRE *regexp.Regexp
		if src.Extract.YearRegex != "" {
			re, err := regexp.Compile(src.Extract.YearRegex)
			if err != nil {
				return nil, fmt.Errorf("compile year_regex for source %q: %w", src.Name, err)
			}
			yearRE = re
		}
		return &Crawler{
			Base:   crawler.NewBase(kind, src, fetcher, deps, opts),
			yearRE: yearRE,
		}, nil
	}
}

// Extract fetches the list page and returns one record per list item.
func (c *Crawler) Extract(ctx context.Context, link, sourceName string) ([]record.Record, error) {
	resp, err := c.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	recs, err := c.parse(resp.Body, link)
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, c.Finalize(rec, link, sourceName))
	}
	return out, nil
}

func (c *Crawler) parse(body []byte, pageURL string) ([]record.Record, error) {
	sectionCSS := c.Source.Extract.SectionCSS
	if sectionCSS == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse list page %s: %w", pageURL, err)
	}

	lang := c.Source.Lang
	if lang == "" {
		lang = config.DefaultLang
	}

	var recs []record.Record
	doc.Find(sectionCSS).Each(func(_ int, item *goquery.Selection) {
		title := record.Clean(strings.Join(strings.Fields(item.Text()), " "))
		if title == "" {
			return
		}
		detailURL := pageURL
		if href, ok := item.Find("a[href]").First().Attr("href"); ok {
			detailURL = crawler.ResolveURL(c.Source.Base, pageURL, href)
		}
		recs = append(recs, record.Record{
			Type:       string(c.Kind),
			WorkType:   string(c.Kind),
			Lang:       lang,
			Author:     c.Source.AuthorOrDefault(),
			Title:      title,
			Year:       c.year(title),
			SourceURL:  detailURL,
			SourceName: c.Source.Base,
			License:    config.DefaultLicense,
			Hash:       record.LinkHash(detailURL, title),
			CreatedAt:  time.Now().UTC(),
		})
	})
	return recs, nil
}

// year applies the configured regex first, then the generic 1800-2099
// detection as a fallback.
func (c *Crawler) year(title string) *int {
	if c.yearRE != nil {
		if match := c.yearRE.FindString(title); match != "" {
			if year, err := strconv.Atoi(match); err == nil {
				return &year
			}
		}
	}
	return record.YearFromText(title)
}
