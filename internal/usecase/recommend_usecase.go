package usecase

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
)

// scoreConcurrency bounds the per-candidate scoring fan-out. Scoring is
// embarrassingly parallel; correctness does not depend on it.
const scoreConcurrency = 8

// RecommendUsecase ranks a language's texts against a target
// comprehensibility and returns the closest matches.
type RecommendUsecase interface {
	Recommend(ctx context.Context, langID int64, req entity.RecommendationRequest) (*entity.RecommendationList, error)
}

// NewRecommendUsecase wires the text repository with default behaviour.
func NewRecommendUsecase(texts repository.TextRepository) RecommendUsecase {
	return &recommendUsecase{texts: texts}
}

type recommendUsecase struct {
	texts repository.TextRepository
}

func (u *recommendUsecase) Recommend(ctx context.Context, langID int64, req entity.RecommendationRequest) (*entity.RecommendationList, error) {
	if langID <= 0 {
		return nil, entity.ErrInvalidLanguageID
	}
	req.Normalize()

	result := &entity.RecommendationList{
		Recommendations:         []entity.Recommendation{},
		TargetComprehensibility: req.Target,
	}

	candidates, err := u.texts.ListByLanguage(ctx, langID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return result, nil
	}

	scored := make([]entity.Recommendation, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreConcurrency)
	for i, text := range candidates {
		g.Go(func() error {
			counts, err := u.texts.WordCounts(gctx, text.ID)
			if err != nil {
				return err
			}
			todo, err := u.texts.TodoWordsCount(gctx, text.ID)
			if err != nil {
				return err
			}
			stats := AggregateStatistics(counts, todo)
			scored[i] = entity.Recommendation{
				TextID: text.ID,
				Title:  text.Title,
				Score:  ComprehensionScore(stats),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Closest to the target first; text id breaks ties so identical inputs
	// always rank identically.
	sort.Slice(scored, func(i, j int) bool {
		di := math.Abs(scored[i].Score - req.Target)
		dj := math.Abs(scored[j].Score - req.Target)
		if di == dj {
			return scored[i].TextID < scored[j].TextID
		}
		return di < dj
	})

	if int32(len(scored)) > req.Limit {
		scored = scored[:req.Limit]
	}
	result.Recommendations = scored
	return result, nil
}
