// Package poempage crawls poem archive sites that publish one poem per page.
// A source either points straight at detail pages or at a paginated index
// whose cards link to them.
package poempage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// siteTitleSuffixRE strips the site name that poem archives append to page
// titles, with or without a separator.
var siteTitleSuffixRE = regexp.MustCompile(`(?i)\s*(?:[-|]\s*)?(?:şiir arşivi|siir arsivi|şiir sitesi|siir sitesi)\s*$`)

// boilerplateCSS matches navigation, sharing widgets, ads, and comment
// sections inside the generic content container fallback.
const boilerplateCSS = "script, style, nav, header, footer, aside, form, iframe, " +
	".share, .sharedaddy, .jp-relatedposts, .post-meta, .entry-meta, .entry-footer, " +
	".comments, .comment-respond, .navigation, .post-navigation, .widget, .adsbygoogle"

// Crawler extracts poem records. When the source configures an index card
// selector it walks the paginated index first; otherwise each seed link is
// treated as a detail page.
type Crawler struct {
	crawler.Base
}

// New builds a poem page crawler for the source.
func New(src config.Source, deps crawler.Deps, opts crawler.Options) (crawler.Crawler, error) {
	fetcher := deps.HTML
	if src.Render && deps.Headless != nil {
		fetcher = deps.Headless
	}
	return &Crawler{Base: crawler.NewBase(record.KindPoemPage, src, fetcher, deps, opts)}, nil
}

// Extract fetches the link and yields poem records. Index sources fan out to
// their detail pages, respecting the configured page limit.
func (c *Crawler) Extract(ctx context.Context, link, sourceName string) ([]record.Record, error) {
	resp, err := c.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	var recs []record.Record
	if c.Source.Extract.IndexCardCSS != "" {
		recs, err = c.walkIndex(ctx, resp.Body, link)
		if err != nil {
			return nil, err
		}
	} else {
		recs = c.parseDetail(resp.Body, link)
	}
	out := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, c.Finalize(rec, link, sourceName))
	}
	return out, nil
}

// walkIndex follows the index pagination, fetching every detail link it has
// not seen yet. Pages already visited end the walk, guarding against
// pagination cycles.
func (c *Crawler) walkIndex(ctx context.Context, pageHTML []byte, pageURL string) ([]record.Record, error) {
	maxPages := c.Source.Paging.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	visited := map[string]bool{}
	seenDetail := map[string]bool{}

	var recs []record.Record
	for page := 1; page <= maxPages; page++ {
		visited[pageURL] = true
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
		if err != nil {
			return recs, fmt.Errorf("parse index page %s: %w", pageURL, err)
		}

		cards := doc.Find(c.Source.Extract.IndexCardCSS)
		c.Logger.Debug("index page parsed", zap.String("url", pageURL), zap.Int("cards", cards.Length()))
		cards.Each(func(_ int, card *goquery.Selection) {
			linkEl := card
			if c.Source.Extract.DetailLinkCSS != "" {
				linkEl = card.Find(c.Source.Extract.DetailLinkCSS).First()
			}
			href, ok := linkEl.Attr("href")
			if !ok || href == "" {
				return
			}
			detailURL := crawler.ResolveURL(c.Source.Base, pageURL, href)
			key := strings.TrimRight(detailURL, "/")
			if seenDetail[key] {
				return
			}
			seenDetail[key] = true

			detailResp, err := c.Fetch(ctx, detailURL)
			if err != nil {
				c.Logger.Warn("poem detail fetch failed, skipping", zap.String("url", detailURL), zap.Error(err))
				return
			}
			recs = append(recs, c.parseDetail(detailResp.Body, detailURL)...)
		})

		if page == maxPages {
			break
		}
		nextURL := c.nextPageURL(doc, pageURL)
		if nextURL == "" || visited[nextURL] {
			break
		}
		resp, err := c.Fetch(ctx, nextURL)
		if err != nil {
			c.Logger.Warn("next index page fetch failed, stopping pagination", zap.String("url", nextURL), zap.Error(err))
			break
		}
		pageHTML = resp.Body
		pageURL = nextURL
	}
	return recs, nil
}

func (c *Crawler) nextPageURL(doc *goquery.Document, pageURL string) string {
	if c.Source.Paging.NextCSS == "" {
		return ""
	}
	href, ok := doc.Find(c.Source.Paging.NextCSS).First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	return crawler.ResolveURL(c.Source.Base, pageURL, href)
}

// parseDetail extracts at most one poem from a detail page. Pages without a
// resolvable title or body produce nothing.
func (c *Crawler) parseDetail(body []byte, detailURL string) []record.Record {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		c.Logger.Warn("unparseable detail page", zap.String("url", detailURL), zap.Error(err))
		return nil
	}

	title := c.title(doc, detailURL)
	if title == "" {
		c.Logger.Debug("detail page without title, skipping", zap.String("url", detailURL))
		return nil
	}
	textFull := c.poemText(doc)
	if textFull == "" {
		c.Logger.Debug("detail page without body, skipping", zap.String("url", detailURL))
		return nil
	}

	author := c.Source.AuthorOrDefault()
	textFull = dropLeadingAuthorLine(textFull, author)

	lang := c.Source.Lang
	if lang == "" {
		lang = config.DefaultLang
	}
	workType := c.Source.WorkType
	if workType == "" {
		workType = "poem"
	}
	return []record.Record{{
		Type:       "poem",
		WorkType:   workType,
		Lang:       lang,
		Author:     author,
		Title:      title,
		TextFull:   textFull,
		Collection: c.Source.Extract.Collection,
		SourceURL:  detailURL,
		SourceName: c.Source.Base,
		License:    config.DefaultLicense,
		Hash:       record.ContentHash(author, title, textFull),
		CreatedAt:  time.Now().UTC(),
	}}
}

// title resolves the poem title through the fallback chain: configured
// selector, og:title meta, the <title> element, then the URL slug. The site
// name suffix is stripped wherever it appears.
func (c *Crawler) title(doc *goquery.Document, detailURL string) string {
	if css := c.Source.Extract.TitleCSS; css != "" {
		if title := cleanTitle(doc.Find(css).First().Text()); title != "" {
			return title
		}
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := cleanTitle(og); title != "" {
			return title
		}
	}
	if title := cleanTitle(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return titleFromSlug(detailURL)
}

func cleanTitle(raw string) string {
	title := record.Clean(strings.Join(strings.Fields(raw), " "))
	return strings.TrimSpace(siteTitleSuffixRE.ReplaceAllString(title, ""))
}

func titleFromSlug(detailURL string) string {
	parsed, err := url.Parse(detailURL)
	if err != nil {
		return ""
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	slug := segments[len(segments)-1]
	slug = strings.TrimSuffix(slug, ".html")
	return record.Clean(strings.ReplaceAll(slug, "-", " "))
}

// poemText gathers the poem body from the configured selector, falling back
// to the common content containers with boilerplate elements removed.
func (c *Crawler) poemText(doc *goquery.Document) string {
	var blocks []string
	if css := c.Source.Extract.FullCSS; css != "" {
		doc.Find(css).Each(func(_ int, el *goquery.Selection) {
			if text := record.Clean(crawler.Text(el)); text != "" {
				blocks = append(blocks, text)
			}
		})
	}
	if len(blocks) == 0 {
		container := doc.Find("div.entry-content, article").First()
		if container.Length() > 0 {
			container.Find(boilerplateCSS).Remove()
			if text := record.Clean(crawler.Text(container)); text != "" {
				blocks = append(blocks, text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// dropLeadingAuthorLine removes a first line that only repeats the author
// name, a common pattern on poem archive pages.
func dropLeadingAuthorLine(text, author string) string {
	line, rest, found := strings.Cut(text, "\n")
	if !found {
		return text
	}
	if record.Canonicalize(line) == record.Canonicalize(author) {
		return strings.TrimSpace(rest)
	}
	return text
}
