// Package record defines the raw record shape produced by every crawler and
// the text canonicalization helpers used to compute stable content hashes.
package record

import "time"

// Kind tags a record with its content type. The kind decides which crawler
// handles a source and which validation rules apply before storage.
type Kind string

// Supported content kinds.
const (
	KindPoemPage Kind = "poem_page"
	KindPDFPoems Kind = "pdf_poems"
	KindPoemList Kind = "poem"
	KindBook     Kind = "book"
	KindNovel    Kind = "novel"
	KindPlay     Kind = "play"
	KindNews     Kind = "news"
)

// Valid reports whether k is one of the closed set of content kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPoemPage, KindPDFPoems, KindPoemList, KindBook, KindNovel, KindPlay, KindNews:
		return true
	}
	return false
}

// Record is the loosely-typed payload a crawler emits for a single work or
// article. The ETL stages normalize, dedupe, and validate it into a stored
// document. A record must carry enough content to compute a stable Hash
// before it leaves the crawler.
type Record struct {
	Kind       Kind      `json:"kind"`
	Type       string    `json:"type"`
	WorkType   string    `json:"work_type,omitempty"`
	Lang       string    `json:"lang"`
	Author     string    `json:"author"`
	Title      string    `json:"title"`
	TextFull   string    `json:"text_full"`
	Summary    string    `json:"summary"`
	Collection string    `json:"collection,omitempty"`
	Date       string    `json:"date,omitempty"`
	Year       *int      `json:"year,omitempty"`
	SourceURL  string    `json:"source_url"`
	SourceName string    `json:"source_name"`
	License    string    `json:"license"`
	Hash       string    `json:"hash"`
	CreatedAt  time.Time `json:"created_at"`
	SafeMode   bool      `json:"safe_mode"`
}

// HasBody reports whether the record carries any body content.
func (r Record) HasBody() bool {
	return r.TextFull != "" || r.Summary != ""
}
