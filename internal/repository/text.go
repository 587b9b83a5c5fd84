package repository

import (
	"context"

	"github.com/eslsoft/readvoc/internal/entity"
)

// ListTextQuery holds parameters for listing texts.
type ListTextQuery struct {
	Pagination
	FilterOrder

	LangID int64
}

// TextRepository reads text metadata and the raw status-count material the
// aggregator works from.
type TextRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.TextDocument, error)
	List(ctx context.Context, query *ListTextQuery) ([]*entity.TextDocument, int64, error)

	// ListByLanguage returns the full recommendation candidate pool for a
	// language, archived texts excluded.
	ListByLanguage(ctx context.Context, langID int64) ([]*entity.TextDocument, error)

	// WordCounts returns the per-status occurrence counts for a text. A
	// text without counts yields empty maps, not an error.
	WordCounts(ctx context.Context, textID int64) (*entity.TextWordCounts, error)

	// TodoWordsCount returns the number of distinct words in the text not
	// yet registered as terms.
	TodoWordsCount(ctx context.Context, textID int64) (int64, error)
}

// LanguageRepository resolves language metadata for stats snapshots.
type LanguageRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Language, error)
	List(ctx context.Context) ([]*entity.Language, error)
}
