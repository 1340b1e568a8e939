// Package etl turns raw crawler records into validated documents ready for
// storage: normalization, hash deduplication, and schema validation.
package etl

import (
	"fmt"
	"strings"
	"time"

	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// Source identifies where a document was crawled from.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Document is the validated persistence shape. Its identity for upserts is
// the (Kind, SourceID) pair, where SourceID falls back from content hash to
// source URL.
type Document struct {
	Kind     record.Kind `json:"kind"`
	SourceID string      `json:"source_id"`

	Type       string `json:"type"`
	WorkType   string `json:"work_type,omitempty"`
	Lang       string `json:"lang"`
	Author     string `json:"author"`
	Title      string `json:"title"`
	TextFull   string `json:"text_full,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Collection string `json:"collection,omitempty"`
	Date       string `json:"date,omitempty"`
	Year       *int   `json:"year,omitempty"`

	Source   Source `json:"source"`
	License  string `json:"license"`
	Hash     string `json:"hash,omitempty"`
	SafeMode bool   `json:"safe_mode"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidationError reports the fields a record was missing for its kind.
type ValidationError struct {
	Kind    record.Kind
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s document missing required fields: %s", e.Kind, strings.Join(e.Missing, ", "))
}

// bodyRequired lists the kinds whose documents must carry text content,
// either the full text or a safe-mode summary.
var bodyRequired = map[record.Kind]bool{
	record.KindPoemPage: true,
	record.KindPDFPoems: true,
	record.KindNews:     true,
}

// BuildDocument validates a normalized record and shapes it for storage.
func BuildDocument(rec record.Record) (Document, error) {
	if rec.Kind == "" {
		return Document{}, fmt.Errorf("record has no kind, cannot select document schema")
	}
	if !rec.Kind.Valid() {
		return Document{}, fmt.Errorf("no document schema for kind %q", rec.Kind)
	}

	sourceID := rec.Hash
	if sourceID == "" {
		sourceID = rec.SourceURL
	}

	var missing []string
	if sourceID == "" {
		missing = append(missing, "source_id")
	}
	if rec.Title == "" {
		missing = append(missing, "title")
	}
	if bodyRequired[rec.Kind] && rec.TextFull == "" && rec.Summary == "" {
		missing = append(missing, "text_full")
	}
	if len(missing) > 0 {
		return Document{}, &ValidationError{Kind: rec.Kind, Missing: missing}
	}

	now := time.Now().UTC()
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return Document{
		Kind:       rec.Kind,
		SourceID:   sourceID,
		Type:       rec.Type,
		WorkType:   rec.WorkType,
		Lang:       rec.Lang,
		Author:     rec.Author,
		Title:      rec.Title,
		TextFull:   rec.TextFull,
		Summary:    rec.Summary,
		Collection: rec.Collection,
		Date:       rec.Date,
		Year:       rec.Year,
		Source: Source{
			Name: rec.SourceName,
			URL:  rec.SourceURL,
		},
		License:   rec.License,
		Hash:      rec.Hash,
		SafeMode:  rec.SafeMode,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}, nil
}

// StoreResult counts the outcome of persisting a batch.
type StoreResult struct {
	Inserted int
	Updated  int
}

// Add accumulates another result into this one.
func (r *StoreResult) Add(other StoreResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
}
