package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
)

const termColumns = `id, lang_id, text, text_lc, word_count, status, translation, status_changed, last_asked, created_at, updated_at`

type termRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewTermRepository builds the SQL-backed term repository.
func NewTermRepository(db *sql.DB, dialect Dialect) repository.TermRepository {
	return &termRepository{db: db, dialect: dialect}
}

func (r *termRepository) GetByID(ctx context.Context, id int64) (*entity.Term, error) {
	query := r.dialect.Rebind(`SELECT ` + termColumns + ` FROM terms WHERE id = ?`)
	term, err := scanTerm(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTermNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get term %d: %w", id, err)
	}
	return term, nil
}

func (r *termRepository) FindByText(ctx context.Context, langID int64, textLC string) (*entity.Term, error) {
	query := r.dialect.Rebind(`SELECT ` + termColumns + ` FROM terms WHERE lang_id = ? AND text_lc = ?`)
	term, err := scanTerm(r.db.QueryRowContext(ctx, query, langID, textLC))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find term %q: %w", textLC, err)
	}
	return term, nil
}

func (r *termRepository) SetStatus(ctx context.Context, id int64, status entity.Status, now time.Time) (entity.Status, error) {
	query := r.dialect.Rebind(`
		UPDATE terms
		SET status = ?, status_changed = ?, updated_at = ?
		WHERE id = ?
		RETURNING status`)
	var stored entity.Status
	err := r.db.QueryRowContext(ctx, query, int32(status), now, now, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, entity.ErrTermNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("set status of term %d: %w", id, err)
	}
	return stored, nil
}

func (r *termRepository) ShiftStatus(ctx context.Context, id int64, delta int32, now time.Time) (entity.Status, error) {
	// Single statement so concurrent shifts never read a stale status.
	// Fixed statuses (98, 99) pass through untouched.
	query := r.dialect.Rebind(`
		UPDATE terms
		SET status = CASE
				WHEN status IN (98, 99) THEN status
				WHEN status + ? < 1 THEN 1
				WHEN status + ? > 5 THEN 5
				ELSE status + ?
			END,
			status_changed = CASE WHEN status IN (98, 99) THEN status_changed ELSE ? END,
			updated_at = ?
		WHERE id = ?
		RETURNING status`)
	var stored entity.Status
	err := r.db.QueryRowContext(ctx, query, delta, delta, delta, now, now, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, entity.ErrTermNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("shift status of term %d: %w", id, err)
	}
	return stored, nil
}

func (r *termRepository) MarkAsked(ctx context.Context, id int64, now time.Time) error {
	query := r.dialect.Rebind(`UPDATE terms SET last_asked = ? WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("mark term %d asked: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark term %d asked: %w", id, err)
	}
	if affected == 0 {
		return entity.ErrTermNotFound
	}
	return nil
}

func (r *termRepository) ListReviewPool(ctx context.Context, query *repository.ReviewPoolQuery) ([]*entity.Term, error) {
	sqlQuery := `SELECT ` + termColumns + ` FROM terms WHERE lang_id = ? AND status BETWEEN ? AND ?`
	args := []any{query.LangID, int32(query.MinStatus), int32(query.MaxStatus)}

	switch query.WordMode {
	case entity.WordModeSingle:
		sqlQuery += ` AND word_count = 1`
	case entity.WordModeMulti:
		sqlQuery += ` AND word_count > 1`
	}

	if len(query.ExcludeIDs) > 0 {
		sqlQuery += ` AND id NOT IN (` + placeholders(len(query.ExcludeIDs)) + `)`
		for _, id := range query.ExcludeIDs {
			args = append(args, id)
		}
	}

	sqlQuery += ` ORDER BY id LIMIT ?`
	args = append(args, query.Limit)

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(sqlQuery), args...)
	if err != nil {
		return nil, fmt.Errorf("list review pool: %w", err)
	}
	defer rows.Close()

	var terms []*entity.Term
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("list review pool: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list review pool: %w", err)
	}
	return terms, nil
}

func (r *termRepository) BulkSetStatusForText(ctx context.Context, textID int64, status entity.Status, now time.Time) (int64, error) {
	query := r.dialect.Rebind(`
		UPDATE terms
		SET status = ?, status_changed = ?, updated_at = ?
		WHERE id IN (SELECT term_id FROM text_terms WHERE text_id = ?)`)
	result, err := r.db.ExecContext(ctx, query, int32(status), now, now, textID)
	if err != nil {
		return 0, fmt.Errorf("bulk set status for text %d: %w", textID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk set status for text %d: %w", textID, err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTerm(row rowScanner) (*entity.Term, error) {
	var term entity.Term
	var lastAsked sql.NullTime
	err := row.Scan(
		&term.ID,
		&term.LangID,
		&term.Text,
		&term.TextLC,
		&term.WordCount,
		&term.Status,
		&term.Translation,
		&term.StatusChanged,
		&lastAsked,
		&term.CreatedAt,
		&term.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastAsked.Valid {
		asked := lastAsked.Time
		term.LastAsked = &asked
	}
	return &term, nil
}
