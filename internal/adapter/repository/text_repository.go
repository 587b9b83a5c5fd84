package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
	"github.com/eslsoft/readvoc/pkg/filterexpr"
)

const textColumns = `id, lang_id, title, annotated, archived, created_at, updated_at`

// Word kind discriminators in text_word_counts.
const (
	wordKindSingle = "w"
	wordKindMulti  = "m"
)

type textRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewTextRepository builds the SQL-backed text repository.
func NewTextRepository(db *sql.DB, dialect Dialect) repository.TextRepository {
	return &textRepository{db: db, dialect: dialect}
}

func (r *textRepository) GetByID(ctx context.Context, id int64) (*entity.TextDocument, error) {
	query := r.dialect.Rebind(`SELECT ` + textColumns + ` FROM texts WHERE id = ?`)
	text, err := scanText(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTextNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get text %d: %w", id, err)
	}
	return text, nil
}

func (r *textRepository) List(ctx context.Context, query *repository.ListTextQuery) ([]*entity.TextDocument, int64, error) {
	preds, err := filterexpr.Parse(query.GetFilter(), textFilterSchema)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidListQuery, err)
	}
	where, args, err := buildWhere(preds, textFilterColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidListQuery, err)
	}
	if query.LangID > 0 {
		if where == "" {
			where = " WHERE lang_id = ?"
		} else {
			where += " AND lang_id = ?"
		}
		args = append(args, query.LangID)
	}

	orderClauses, err := filterexpr.ParseOrderBy(query.GetOrderBy(), textOrderSchema)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidListQuery, err)
	}

	var total int64
	countQuery := r.dialect.Rebind(`SELECT COUNT(*) FROM texts` + where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count texts: %w", err)
	}

	listQuery := `SELECT ` + textColumns + ` FROM texts` + where + buildOrderBy(orderClauses) + ` LIMIT ? OFFSET ?`
	listArgs := append(args, query.PageSize, query.Offset())

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listQuery), listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list texts: %w", err)
	}
	defer rows.Close()

	texts, err := collectTexts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list texts: %w", err)
	}
	return texts, total, nil
}

func (r *textRepository) ListByLanguage(ctx context.Context, langID int64) ([]*entity.TextDocument, error) {
	query := r.dialect.Rebind(`SELECT ` + textColumns + ` FROM texts WHERE lang_id = ? AND archived = ? ORDER BY id`)
	rows, err := r.db.QueryContext(ctx, query, langID, false)
	if err != nil {
		return nil, fmt.Errorf("list texts for language %d: %w", langID, err)
	}
	defer rows.Close()

	texts, err := collectTexts(rows)
	if err != nil {
		return nil, fmt.Errorf("list texts for language %d: %w", langID, err)
	}
	return texts, nil
}

func (r *textRepository) WordCounts(ctx context.Context, textID int64) (*entity.TextWordCounts, error) {
	query := r.dialect.Rebind(`
		SELECT status, word_kind, occurrences, distinct_terms
		FROM text_word_counts
		WHERE text_id = ?`)
	rows, err := r.db.QueryContext(ctx, query, textID)
	if err != nil {
		return nil, fmt.Errorf("word counts for text %d: %w", textID, err)
	}
	defer rows.Close()

	counts := &entity.TextWordCounts{
		Stat:  make(map[entity.Status]int64),
		StatU: make(map[entity.Status]int64),
	}
	for rows.Next() {
		var status entity.Status
		var kind string
		var occurrences, distinct int64
		if err := rows.Scan(&status, &kind, &occurrences, &distinct); err != nil {
			return nil, fmt.Errorf("word counts for text %d: %w", textID, err)
		}
		switch kind {
		case wordKindMulti:
			counts.StatU[status] += occurrences
			counts.TotalU += occurrences
			counts.ExprU += distinct
		default:
			counts.Stat[status] += occurrences
			counts.Total += occurrences
			counts.Expr += distinct
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("word counts for text %d: %w", textID, err)
	}
	return counts, nil
}

func (r *textRepository) TodoWordsCount(ctx context.Context, textID int64) (int64, error) {
	query := r.dialect.Rebind(`SELECT todo_count FROM texts WHERE id = ?`)
	var count int64
	err := r.db.QueryRowContext(ctx, query, textID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("todo count for text %d: %w", textID, err)
	}
	return count, nil
}

type languageRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewLanguageRepository builds the SQL-backed language repository.
func NewLanguageRepository(db *sql.DB, dialect Dialect) repository.LanguageRepository {
	return &languageRepository{db: db, dialect: dialect}
}

func (r *languageRepository) GetByID(ctx context.Context, id int64) (*entity.Language, error) {
	query := r.dialect.Rebind(`SELECT id, name, code FROM languages WHERE id = ?`)
	var lang entity.Language
	err := r.db.QueryRowContext(ctx, query, id).Scan(&lang.ID, &lang.Name, &lang.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLanguageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get language %d: %w", id, err)
	}
	return &lang, nil
}

func (r *languageRepository) List(ctx context.Context) ([]*entity.Language, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code FROM languages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var languages []*entity.Language
	for rows.Next() {
		var lang entity.Language
		if err := rows.Scan(&lang.ID, &lang.Name, &lang.Code); err != nil {
			return nil, fmt.Errorf("list languages: %w", err)
		}
		languages = append(languages, &lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return languages, nil
}

func scanText(row rowScanner) (*entity.TextDocument, error) {
	var text entity.TextDocument
	err := row.Scan(
		&text.ID,
		&text.LangID,
		&text.Title,
		&text.Annotated,
		&text.Archived,
		&text.CreatedAt,
		&text.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

func collectTexts(rows *sql.Rows) ([]*entity.TextDocument, error) {
	var texts []*entity.TextDocument
	for rows.Next() {
		text, err := scanText(rows)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}
