package etl

import "github.com/ozanunsal/hikmet-crawler/internal/record"

// Dedupe drops records whose hash was already seen, keeping the first
// occurrence and preserving order. Records without a hash always pass
// through; nothing upstream can vouch for their identity.
func Dedupe(recs []record.Record) []record.Record {
	seen := make(map[string]struct{}, len(recs))
	out := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.Hash == "" {
			out = append(out, rec)
			continue
		}
		if _, dup := seen[rec.Hash]; dup {
			continue
		}
		seen[rec.Hash] = struct{}{}
		out = append(out, rec)
	}
	return out
}
