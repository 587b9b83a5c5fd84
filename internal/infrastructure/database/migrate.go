package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS languages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS texts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	lang_id INTEGER NOT NULL REFERENCES languages(id),
	title TEXT NOT NULL,
	annotated INTEGER NOT NULL DEFAULT 0,
	archived INTEGER NOT NULL DEFAULT 0,
	todo_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	lang_id INTEGER NOT NULL REFERENCES languages(id),
	text TEXT NOT NULL,
	text_lc TEXT NOT NULL,
	word_count INTEGER NOT NULL DEFAULT 1,
	status INTEGER NOT NULL DEFAULT 1,
	translation TEXT NOT NULL DEFAULT '',
	status_changed TIMESTAMP NOT NULL,
	last_asked TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	UNIQUE (lang_id, text_lc)
);

CREATE INDEX IF NOT EXISTS idx_terms_review ON terms (lang_id, status, word_count);

CREATE TABLE IF NOT EXISTS text_terms (
	text_id INTEGER NOT NULL REFERENCES texts(id),
	term_id INTEGER NOT NULL REFERENCES terms(id),
	PRIMARY KEY (text_id, term_id)
);

CREATE TABLE IF NOT EXISTS text_word_counts (
	text_id INTEGER NOT NULL REFERENCES texts(id),
	status INTEGER NOT NULL,
	word_kind TEXT NOT NULL,
	occurrences INTEGER NOT NULL DEFAULT 0,
	distinct_terms INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (text_id, status, word_kind)
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS languages (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS texts (
	id BIGSERIAL PRIMARY KEY,
	lang_id BIGINT NOT NULL REFERENCES languages(id),
	title TEXT NOT NULL,
	annotated BOOLEAN NOT NULL DEFAULT FALSE,
	archived BOOLEAN NOT NULL DEFAULT FALSE,
	todo_count BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS terms (
	id BIGSERIAL PRIMARY KEY,
	lang_id BIGINT NOT NULL REFERENCES languages(id),
	text TEXT NOT NULL,
	text_lc TEXT NOT NULL,
	word_count INTEGER NOT NULL DEFAULT 1,
	status INTEGER NOT NULL DEFAULT 1,
	translation TEXT NOT NULL DEFAULT '',
	status_changed TIMESTAMPTZ NOT NULL,
	last_asked TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (lang_id, text_lc)
);

CREATE INDEX IF NOT EXISTS idx_terms_review ON terms (lang_id, status, word_count);

CREATE TABLE IF NOT EXISTS text_terms (
	text_id BIGINT NOT NULL REFERENCES texts(id),
	term_id BIGINT NOT NULL REFERENCES terms(id),
	PRIMARY KEY (text_id, term_id)
);

CREATE TABLE IF NOT EXISTS text_word_counts (
	text_id BIGINT NOT NULL REFERENCES texts(id),
	status INTEGER NOT NULL,
	word_kind TEXT NOT NULL,
	occurrences BIGINT NOT NULL DEFAULT 0,
	distinct_terms BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (text_id, status, word_kind)
);
`

// Migrate creates the schema for the configured driver. Statements are
// idempotent so repeated runs are safe.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == "pgx" {
		schema = postgresSchema
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
