package pdfpoems

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

var quoteDashReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	"–", "-", "—", "-",
)

// splitWorks segments the line stream into individual works at the detected
// title lines. When no title is found the whole document becomes a single
// work, titled by its first line.
func (c *Crawler) splitWorks(lines []string, sourceURL string) []record.Record {
	titleIndices := detectTitleIndices(lines)
	if len(titleIndices) == 0 {
		text := normalizeWorkText(strings.Join(lines, "\n"))
		if text == "" {
			return nil
		}
		return []record.Record{c.buildRecord(firstLineTitle(text), text, sourceURL)}
	}

	var recs []record.Record
	for i, titleIdx := range titleIndices {
		title, bodyStart := collectTitleBlock(lines, titleIdx)
		for bodyStart < len(lines) && strings.TrimSpace(lines[bodyStart]) == "" {
			bodyStart++
		}
		bodyEnd := len(lines)
		if i+1 < len(titleIndices) {
			bodyEnd = titleIndices[i+1]
		}
		bodyLines := lines[bodyStart:bodyEnd]
		for len(bodyLines) > 0 && strings.TrimSpace(bodyLines[len(bodyLines)-1]) == "" {
			bodyLines = bodyLines[:len(bodyLines)-1]
		}
		text := normalizeWorkText(strings.Join(bodyLines, "\n"))
		if text == "" {
			continue
		}
		if title == "" {
			title = firstLineTitle(text)
		}
		recs = append(recs, c.buildRecord(title, text, sourceURL))
	}
	return recs
}

// normalizeWorkText repairs CIDs, collapses whitespace per line, flattens
// typographic quotes and dashes, and limits blank runs to one empty line.
func normalizeWorkText(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = replaceCIDSequences(normalized)

	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalWS.ReplaceAllString(line, " "))
	}
	cleaned := record.Clean(quoteDashReplacer.Replace(strings.Join(lines, "\n")))
	if cleaned == "" {
		return ""
	}
	cleaned = blankRuns.ReplaceAllString(cleaned, "\n\n")
	return norm.NFC.String(strings.TrimSpace(cleaned))
}

func firstLineTitle(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	runes := []rune(line)
	if len(runes) > maxTitleLen {
		runes = runes[:maxTitleLen]
	}
	return string(runes)
}

func (c *Crawler) buildRecord(title, text, sourceURL string) record.Record {
	safeTitle := strings.TrimSpace(record.Clean(norm.NFC.String(title)))
	normalizedText := norm.NFC.String(text)
	if safeTitle == "" && normalizedText != "" {
		safeTitle = firstLineTitle(normalizedText)
	}

	sourceName := sourceURL
	if parsed, err := url.Parse(sourceURL); err == nil && parsed.Host != "" {
		sourceName = parsed.Host
	}

	docType := c.Source.DocumentType
	if docType == "" {
		docType = "poem"
	}
	workType := c.Source.WorkType
	if workType == "" {
		workType = "poem"
	}
	lang := c.Source.Lang
	if lang == "" {
		lang = config.DefaultLang
	}
	collection := c.Source.Collection
	if collection == "" {
		collection = c.Source.Name
	}
	if collection == "" {
		collection = config.DefaultCollection
	}

	return record.Record{
		Type:       docType,
		WorkType:   workType,
		Lang:       lang,
		Author:     c.Source.AuthorOrDefault(),
		Title:      safeTitle,
		TextFull:   normalizedText,
		Collection: collection,
		SourceURL:  sourceURL,
		SourceName: sourceName,
		License:    config.DefaultLicense,
		Hash:       record.NewHash(sourceURL, safeTitle, normalizedText),
		CreatedAt:  time.Now().UTC(),
	}
}
