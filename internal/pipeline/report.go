package pipeline

import (
	"time"

	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// SourceReport summarizes one source's crawl within a run.
type SourceReport struct {
	Name     string      `json:"name"`
	Kind     record.Kind `json:"kind"`
	SafeMode bool        `json:"safe_mode"`

	LinksProcessed int `json:"links_processed"`
	Extracted      int `json:"extracted"`
	Duplicates     int `json:"duplicates"`
	Invalid        int `json:"invalid"`
	Inserted       int `json:"inserted"`
	Updated        int `json:"updated"`

	Errors   []string      `json:"errors,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// OK reports whether the source finished without errors.
func (r SourceReport) OK() bool {
	return len(r.Errors) == 0
}

// RunReport is the run summary published after every crawl.
type RunReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Sources    []SourceReport `json:"sources"`

	LinksProcessed int `json:"links_processed"`
	Extracted      int `json:"extracted"`
	Duplicates     int `json:"duplicates"`
	Invalid        int `json:"invalid"`
	Inserted       int `json:"inserted"`
	Updated        int `json:"updated"`
	Failed         int `json:"failed"`
}

func (r *RunReport) aggregate() {
	for _, src := range r.Sources {
		r.LinksProcessed += src.LinksProcessed
		r.Extracted += src.Extracted
		r.Duplicates += src.Duplicates
		r.Invalid += src.Invalid
		r.Inserted += src.Inserted
		r.Updated += src.Updated
		if !src.OK() {
			r.Failed++
		}
	}
}
