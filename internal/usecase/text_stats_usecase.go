package usecase

import (
	"context"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
)

// TextStatsUsecase aggregates raw per-status occurrence counts into the
// per-text statistics record and the snapshot view built on top of it.
type TextStatsUsecase interface {
	TextStats(ctx context.Context, textID int64) (entity.TextStatistics, error)
	Snapshot(ctx context.Context, textID int64) (*entity.TextStatsSnapshot, error)
}

// NewTextStatsUsecase wires the repositories with default behaviour.
func NewTextStatsUsecase(texts repository.TextRepository, languages repository.LanguageRepository) TextStatsUsecase {
	return &textStatsUsecase{
		texts:     texts,
		languages: languages,
	}
}

type textStatsUsecase struct {
	texts     repository.TextRepository
	languages repository.LanguageRepository
}

func (u *textStatsUsecase) TextStats(ctx context.Context, textID int64) (entity.TextStatistics, error) {
	if textID <= 0 {
		return entity.TextStatistics{}, entity.ErrInvalidTextID
	}

	counts, err := u.texts.WordCounts(ctx, textID)
	if err != nil {
		return entity.TextStatistics{}, err
	}
	todo, err := u.texts.TodoWordsCount(ctx, textID)
	if err != nil {
		return entity.TextStatistics{}, err
	}

	return AggregateStatistics(counts, todo), nil
}

func (u *textStatsUsecase) Snapshot(ctx context.Context, textID int64) (*entity.TextStatsSnapshot, error) {
	text, err := u.texts.GetByID(ctx, textID)
	if err != nil {
		return nil, err
	}
	lang, err := u.languages.GetByID(ctx, text.LangID)
	if err != nil {
		return nil, err
	}
	stats, err := u.TextStats(ctx, textID)
	if err != nil {
		return nil, err
	}

	return &entity.TextStatsSnapshot{
		ID:           text.ID,
		Title:        text.Title,
		LanguageID:   lang.ID,
		LanguageName: lang.Name,
		Annotated:    text.Annotated,
		Stats:        stats,
	}, nil
}

// AggregateStatistics merges the separately reported single-word and
// multi-word counts into one bucket per status. Missing buckets resolve to
// zero; the unknown count comes from the to-do words count, never from
// status-0 rows; the total is always recomputed from the sum.
func AggregateStatistics(counts *entity.TextWordCounts, todoWords int64) entity.TextStatistics {
	var stats entity.TextStatistics
	stats.Unknown = todoWords
	if counts != nil {
		for _, status := range entity.LearningStatuses {
			stats.SetBucket(status, counts.Stat[status]+counts.StatU[status])
		}
	}
	stats.Recompute()
	return stats
}
