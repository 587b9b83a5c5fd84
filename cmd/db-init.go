/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	adapterrepo "github.com/eslsoft/readvoc/internal/adapter/repository"
	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/infrastructure/config"
	"github.com/eslsoft/readvoc/internal/infrastructure/database"
)

// dbInitCmd creates the database schema. go-sqlite3 needs CGO_ENABLED=1.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Create the database schema",
	Long:  "Creates the schema for the configured database. With --demo a small demo dataset is seeded so the API has data to serve.",
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetBool("demo")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		driver, err := cfg.DatabaseDriver()
		if err != nil {
			return err
		}
		db, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		if err := database.Migrate(ctx, db, driver); err != nil {
			return err
		}
		if demo {
			if err := seedDemoData(ctx, db, adapterrepo.Dialect(driver)); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().Bool("demo", false, "seed a demo language with texts and terms")
}

// seedDemoData inserts one language with a few texts and terms. Running it
// against a non-empty database is refused rather than deduplicated.
func seedDemoData(ctx context.Context, db *sql.DB, dialect adapterrepo.Dialect) error {
	var existing int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM languages`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("database already has %d languages; refusing to seed", existing)
	}

	now := time.Now().UTC()
	langID, err := insertRow(ctx, db, dialect,
		`INSERT INTO languages (name, code) VALUES (?, ?)`, "English", "en")
	if err != nil {
		return err
	}

	texts := []struct {
		title string
		todo  int64
	}{
		{"The Lighthouse Keeper", 12},
		{"A Walk Along the Harbor", 5},
		{"Night Trains", 30},
	}
	textIDs := make([]int64, 0, len(texts))
	for _, t := range texts {
		id, err := insertRow(ctx, db, dialect,
			`INSERT INTO texts (lang_id, title, annotated, archived, todo_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			langID, t.title, true, false, t.todo, now, now)
		if err != nil {
			return err
		}
		textIDs = append(textIDs, id)
	}

	terms := []struct {
		text   string
		status entity.Status
	}{
		{"lighthouse", entity.StatusLearning2},
		{"keeper", entity.StatusLearning3},
		{"harbor", entity.StatusLearning1},
		{"tide", entity.StatusLearning4},
		{"pier", entity.StatusLearning5},
		{"the", entity.StatusIgnored},
		{"night", entity.StatusWellKnown},
		{"freight train", entity.StatusLearning2},
	}
	for i, t := range terms {
		term := entity.Term{LangID: langID, Text: t.text, Status: t.status}
		term.Normalize(now)
		termID, err := insertRow(ctx, db, dialect,
			`INSERT INTO terms (lang_id, text, text_lc, word_count, status, translation, status_changed, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			term.LangID, term.Text, term.TextLC, term.WordCount, int32(term.Status), term.Translation,
			term.StatusChanged, term.CreatedAt, term.UpdatedAt)
		if err != nil {
			return err
		}
		textID := textIDs[i%len(textIDs)]
		if _, err := db.ExecContext(ctx, dialect.Rebind(
			`INSERT INTO text_terms (text_id, term_id) VALUES (?, ?)`), textID, termID); err != nil {
			return err
		}
	}

	counts := []struct {
		textID      int64
		status      entity.Status
		kind        string
		occurrences int64
		distinct    int64
	}{
		{textIDs[0], entity.StatusLearning2, "w", 8, 3},
		{textIDs[0], entity.StatusWellKnown, "w", 60, 40},
		{textIDs[0], entity.StatusIgnored, "w", 20, 5},
		{textIDs[1], entity.StatusLearning1, "w", 4, 2},
		{textIDs[1], entity.StatusWellKnown, "w", 80, 50},
		{textIDs[1], entity.StatusLearning2, "m", 2, 1},
		{textIDs[2], entity.StatusLearning4, "w", 10, 6},
		{textIDs[2], entity.StatusWellKnown, "w", 30, 25},
	}
	for _, c := range counts {
		if _, err := db.ExecContext(ctx, dialect.Rebind(
			`INSERT INTO text_word_counts (text_id, status, word_kind, occurrences, distinct_terms) VALUES (?, ?, ?, ?, ?)`),
			c.textID, int32(c.status), c.kind, c.occurrences, c.distinct); err != nil {
			return err
		}
	}
	return nil
}

// insertRow inserts one row and returns its generated id on either driver.
func insertRow(ctx context.Context, db *sql.DB, dialect adapterrepo.Dialect, query string, args ...any) (int64, error) {
	if dialect == adapterrepo.DialectPostgres {
		var id int64
		err := db.QueryRowContext(ctx, dialect.Rebind(query+` RETURNING id`), args...).Scan(&id)
		return id, err
	}
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
