package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// WordMode restricts a review session to single words, multi-word
// expressions, or both.
type WordMode string

const (
	WordModeAll    WordMode = "all"
	WordModeSingle WordMode = "single"
	WordModeMulti  WordMode = "multi"
)

// ParseWordMode maps the caller-supplied mode onto the closed set,
// defaulting to all terms.
func ParseWordMode(mode string) (WordMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "all":
		return WordModeAll, nil
	case "single", "word", "words":
		return WordModeSingle, nil
	case "multi", "expr", "expressions":
		return WordModeMulti, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWordMode, mode)
	}
}

// Selection bounds the status range a review session draws from. Both ends
// stay within the 1-5 learning range; fixed terms never enter a session.
type Selection struct {
	Min Status
	Max Status
}

// ParseSelection interprets the caller-supplied pool selector. Accepted
// forms: "" or "learning" for the whole 1-5 range, a single stage ("3"),
// or an inclusive range ("2-4").
func ParseSelection(raw string) (Selection, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "learning":
		return Selection{Min: StatusLearning1, Max: StatusLearning5}, nil
	}

	parse := func(part string) (Status, error) {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
		}
		s := Status(n)
		if !s.Learning() {
			return 0, fmt.Errorf("%w: stage %d outside 1-5", ErrInvalidSelection, n)
		}
		return s, nil
	}

	if lo, hi, ok := strings.Cut(raw, "-"); ok {
		minS, err := parse(lo)
		if err != nil {
			return Selection{}, err
		}
		maxS, err := parse(hi)
		if err != nil {
			return Selection{}, err
		}
		if maxS < minS {
			minS, maxS = maxS, minS
		}
		return Selection{Min: minS, Max: maxS}, nil
	}

	s, err := parse(raw)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Min: s, Max: s}, nil
}

// ReviewSession is the ephemeral, caller-supplied scope of one testing
// session. It carries no state beyond the parameters; the underlying term
// statuses are the only durable data it touches.
type ReviewSession struct {
	TestKey   string
	Selection Selection
	WordMode  WordMode
	LangID    int64
	WordRegex *regexp.Regexp
	Kind      string
}

// ReviewSessionParams is the raw request surface for building a session.
type ReviewSessionParams struct {
	TestKey   string
	Selection string
	WordMode  string
	LangID    int64
	WordRegex string
	Kind      string
}

// NewReviewSession validates the raw parameters into a session. Validation
// happens here, at construction, never ad hoc in handlers.
func NewReviewSession(params ReviewSessionParams) (*ReviewSession, error) {
	if params.LangID <= 0 {
		return nil, ErrInvalidLanguageID
	}

	selection, err := ParseSelection(params.Selection)
	if err != nil {
		return nil, err
	}

	mode, err := ParseWordMode(params.WordMode)
	if err != nil {
		return nil, err
	}

	session := &ReviewSession{
		TestKey:   strings.TrimSpace(params.TestKey),
		Selection: selection,
		WordMode:  mode,
		LangID:    params.LangID,
		Kind:      strings.TrimSpace(params.Kind),
	}

	if pattern := strings.TrimSpace(params.WordRegex); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWordRegex, err)
		}
		session.WordRegex = re
	}

	return session, nil
}

// Matches reports whether a term falls inside the session's scope.
func (s *ReviewSession) Matches(term *Term) bool {
	if term == nil || term.LangID != s.LangID {
		return false
	}
	if term.Status < s.Selection.Min || term.Status > s.Selection.Max {
		return false
	}
	switch s.WordMode {
	case WordModeSingle:
		if term.MultiWord() {
			return false
		}
	case WordModeMulti:
		if !term.MultiWord() {
			return false
		}
	}
	if s.WordRegex != nil && !s.WordRegex.MatchString(term.TextLC) {
		return false
	}
	return true
}
