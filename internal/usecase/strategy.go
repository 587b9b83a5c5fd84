package usecase

import (
	"fmt"
	"strings"

	"github.com/eslsoft/readvoc/internal/entity"
)

// Strategy orders the eligible review pool; NextWord presents the first
// term under that order. The priority policy is configuration, not engine
// logic, so implementations are swappable.
type Strategy interface {
	Name() string
	Less(a, b *entity.Term) bool
}

// LeastRecentlyAsked presents never-asked terms first, then the term whose
// last presentation lies furthest in the past. The default.
type LeastRecentlyAsked struct{}

func (LeastRecentlyAsked) Name() string { return "lru" }

func (LeastRecentlyAsked) Less(a, b *entity.Term) bool {
	switch {
	case a.LastAsked == nil && b.LastAsked == nil:
		return a.ID < b.ID
	case a.LastAsked == nil:
		return true
	case b.LastAsked == nil:
		return false
	case a.LastAsked.Equal(*b.LastAsked):
		return a.ID < b.ID
	default:
		return a.LastAsked.Before(*b.LastAsked)
	}
}

// StatusWeighted prefers terms in earlier learning stages, falling back to
// least-recently-asked within a stage.
type StatusWeighted struct{}

func (StatusWeighted) Name() string { return "status" }

func (StatusWeighted) Less(a, b *entity.Term) bool {
	if a.Status != b.Status {
		return a.Status < b.Status
	}
	return LeastRecentlyAsked{}.Less(a, b)
}

// StrategyByName resolves a configured strategy name. Empty selects the
// default.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lru":
		return LeastRecentlyAsked{}, nil
	case "status":
		return StatusWeighted{}, nil
	default:
		return nil, fmt.Errorf("unknown review strategy %q", name)
	}
}
