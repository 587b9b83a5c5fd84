package repository

import (
	"context"
	"time"

	"github.com/eslsoft/readvoc/internal/entity"
)

// ReviewPoolQuery bounds the set of terms eligible for a review session.
// Regex filtering stays in the usecase; SQL regex support varies per driver.
type ReviewPoolQuery struct {
	LangID     int64
	MinStatus  entity.Status
	MaxStatus  entity.Status
	WordMode   entity.WordMode
	ExcludeIDs []int64
	Limit      int32
}

// TermRepository is the status repository: the source of truth for per-term
// learning statuses. Status writes are the engine's only durable effect.
type TermRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Term, error)
	FindByText(ctx context.Context, langID int64, textLC string) (*entity.Term, error)

	// SetStatus replaces the status absolutely and stamps the change time.
	SetStatus(ctx context.Context, id int64, status entity.Status, now time.Time) (entity.Status, error)

	// ShiftStatus applies a relative change atomically in a single
	// statement. Terms at 98/99 are left untouched and the stored status
	// is returned either way.
	ShiftStatus(ctx context.Context, id int64, delta int32, now time.Time) (entity.Status, error)

	// MarkAsked records that a term was presented in a review session.
	MarkAsked(ctx context.Context, id int64, now time.Time) error

	// ListReviewPool returns eligible review candidates for the query.
	ListReviewPool(ctx context.Context, query *ReviewPoolQuery) ([]*entity.Term, error)

	// BulkSetStatusForText sets the status of every term occurring in a
	// text ("mark all well-known / ignored"). Returns the affected count.
	BulkSetStatusForText(ctx context.Context, textID int64, status entity.Status, now time.Time) (int64, error)
}
