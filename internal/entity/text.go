package entity

import "time"

// TextDocument is an imported reading text. Contents and parsing live
// outside this engine; only the metadata the core reads is modelled.
type TextDocument struct {
	ID        int64
	LangID    int64
	Title     string
	Annotated bool
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TextWordCounts holds the raw per-status occurrence counts for one text as
// reported by the status repository. Single-word terms and multi-word
// expressions are counted separately upstream; the aggregator merges them.
type TextWordCounts struct {
	Total int64            // total single-word occurrences
	Expr  int64            // distinct single-word terms
	Stat  map[Status]int64 // single-word occurrences per status

	TotalU int64            // total multi-word occurrences
	ExprU  int64            // distinct multi-word terms
	StatU  map[Status]int64 // multi-word occurrences per status
}

// TextStatistics is the derived per-text status distribution. It is computed
// on demand and never persisted or cached.
type TextStatistics struct {
	Unknown int64 `json:"unknown"`
	S1      int64 `json:"s1"`
	S2      int64 `json:"s2"`
	S3      int64 `json:"s3"`
	S4      int64 `json:"s4"`
	S5      int64 `json:"s5"`
	S98     int64 `json:"s98"`
	S99     int64 `json:"s99"`
	Total   int64 `json:"total"`
}

// Bucket returns the count for one status bucket. Unknown statuses map to
// the to-do word count.
func (s *TextStatistics) Bucket(status Status) int64 {
	switch status {
	case StatusLearning1:
		return s.S1
	case StatusLearning2:
		return s.S2
	case StatusLearning3:
		return s.S3
	case StatusLearning4:
		return s.S4
	case StatusLearning5:
		return s.S5
	case StatusIgnored:
		return s.S98
	case StatusWellKnown:
		return s.S99
	default:
		return s.Unknown
	}
}

// SetBucket assigns the count for one status bucket.
func (s *TextStatistics) SetBucket(status Status, count int64) {
	switch status {
	case StatusLearning1:
		s.S1 = count
	case StatusLearning2:
		s.S2 = count
	case StatusLearning3:
		s.S3 = count
	case StatusLearning4:
		s.S4 = count
	case StatusLearning5:
		s.S5 = count
	case StatusIgnored:
		s.S98 = count
	case StatusWellKnown:
		s.S99 = count
	default:
		s.Unknown = count
	}
}

// Recompute refreshes Total from the buckets. Total is never supplied
// externally; it always equals the sum of unknown plus the seven buckets.
func (s *TextStatistics) Recompute() {
	s.Total = s.Unknown + s.S1 + s.S2 + s.S3 + s.S4 + s.S5 + s.S98 + s.S99
}

// TextStatsSnapshot is the per-text statistics view returned by the stats
// entry point.
type TextStatsSnapshot struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	LanguageID   int64          `json:"language_id"`
	LanguageName string         `json:"language_name"`
	Annotated    bool           `json:"annotated"`
	Stats        TextStatistics `json:"stats"`
}
