package entity

import "time"

// EnrichmentStats summarizes the catalog join for one run.
type EnrichmentStats struct {
	DistinctKeys   int
	ResolvedKeys   int
	UnresolvedKeys int
	Matched        int // transactions that gained catalog fields
	Unmatched      int
	UnmatchedIDs   []string // distinct product ids that stayed bare, sorted
}

// SuccessRate is the share of transactions enriched, in percent.
func (s *EnrichmentStats) SuccessRate() float64 {
	total := s.Matched + s.Unmatched
	if total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(total) * 100
}

// RunStats carries the per-run counters the report prints alongside the
// analytics summary.
type RunStats struct {
	RunID       string
	StartedAt   time.Time
	Rejections  RejectionStats
	FilteredOut int
	Enrichment  EnrichmentStats
}
