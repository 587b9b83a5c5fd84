package entity

import (
	"strings"
	"time"
)

// Term is a tracked vocabulary item (single word or multi-word expression)
// scoped to one language. TextLC is the case-insensitive identity within
// that language.
type Term struct {
	ID          int64
	LangID      int64
	Text        string
	TextLC      string
	WordCount   int32
	Status      Status
	Translation string

	StatusChanged time.Time
	LastAsked     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MultiWord reports whether the term spans more than one word.
func (t *Term) MultiWord() bool {
	return t.WordCount > 1
}

// Normalize ensures defaults & constraints before persistence.
func (t *Term) Normalize(now time.Time) {
	t.Text = strings.TrimSpace(t.Text)
	t.TextLC = strings.ToLower(t.Text)
	if t.WordCount <= 0 {
		t.WordCount = int32(len(strings.Fields(t.Text)))
		if t.WordCount == 0 {
			t.WordCount = 1
		}
	}
	if !t.Status.Valid() {
		t.Status = StatusLearning1
	}
	if t.StatusChanged.IsZero() {
		t.StatusChanged = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
