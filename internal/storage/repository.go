// Package storage provides the SQLite-backed record store, an opt-in
// alternative for users who outgrow the flat CSV file. The schema is
// managed with embedded migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements store.Appender. The amount is stored as decimal text
// so no precision is lost on the way in or out.
func (r *SQLiteRepository) Append(ctx context.Context, rec core.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, item, amount, category) VALUES (?, ?, ?, ?)`,
		rec.Date.Format(core.DateLayout), rec.Item, rec.Amount.String(), rec.Category)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", id,
		"item", rec.Item,
		"amount", rec.Amount.String(),
		"category", rec.Category)

	return strconv.FormatInt(id, 10), nil
}

// Load implements store.Loader, returning records in insertion order.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, item, amount, category FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var date, item, amount, category string
		if err := rows.Scan(&date, &item, &amount, &category); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		rec, err := core.ParseRecord([]string{date, item, amount, category}, 0)
		if err != nil {
			return nil, fmt.Errorf("decode expense row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return records, nil
}
