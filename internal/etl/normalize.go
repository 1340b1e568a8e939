package etl

import (
	"strings"
	"time"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// dateFormats are the publication date layouts seen across the sources, tried
// in order after ISO timestamps.
var dateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"2006/01/02",
}

// Normalize cleans text fields, fills metadata defaults, and canonicalizes
// dates to ISO form. The input slice is not modified.
func Normalize(recs []record.Record) []record.Record {
	out := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		rec.Title = record.Clean(rec.Title)
		rec.Summary = record.Clean(rec.Summary)
		rec.TextFull = strings.TrimSpace(rec.TextFull)
		if rec.Lang == "" {
			rec.Lang = config.DefaultLang
		}
		if rec.Type == "" {
			rec.Type = rec.WorkType
		}
		if rec.Type == "" {
			rec.Type = "unknown"
		}
		rec.Date = NormalizeDate(rec.Date)
		if rec.Author == "" {
			rec.Author = config.DefaultAuthor
		}
		if rec.License == "" {
			rec.License = config.DefaultLicense
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}
		out = append(out, rec)
	}
	return out
}

// NormalizeDate converts a date string to "2006-01-02". Timestamps are
// truncated to their date, a bare year becomes January 1st of that year, and
// unrecognized values pass through unchanged.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	if len(value) == 4 && isDigits(value) {
		return value + "-01-01"
	}
	return value
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
