// Package csvfile implements the flat-file record store: a delimited
// text file with four columns (Date,Item,Amount,Category), one row per
// record, appended to and read back in full.
//
// There is no file locking. Two processes appending concurrently may
// interleave rows; the tracker is scoped to single-process interactive
// use and this limitation is documented rather than solved.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tracker/internal/core"
)

type Store struct {
	path string

	// lenient restores the legacy behavior of skipping malformed rows
	// (logged, not silently) instead of failing the load.
	lenient bool
}

func New(path string) *Store {
	return &Store{path: path}
}

// NewLenient returns a store that skips and logs malformed rows on load.
func NewLenient(path string) *Store {
	return &Store{path: path, lenient: true}
}

func (s *Store) Path() string { return s.path }

// Load reads the backing file into an ordered record collection. A
// missing file is an empty collection, not an error. In strict mode the
// first malformed row fails the load with a *core.ParseError carrying
// the row number and offending field.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Field-count validation happens in ParseRecord so that the error
	// carries the row number.
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records []core.Record
	for i, row := range rows {
		line := i + 1
		if i == 0 && isHeader(row) {
			continue
		}
		rec, err := core.ParseRecord(row, line)
		if err != nil {
			if s.lenient {
				slog.WarnContext(ctx, "Skipping malformed row", "path", s.path, "line", line, "error", err)
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append writes one row to the end of the backing file, creating it with
// a header when absent, and fsyncs before returning. The returned
// reference is the 1-based data row index.
func (s *Store) Append(ctx context.Context, rec core.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	existing, err := s.Load(ctx)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create data directory: %w", err)
		}
	}

	_, statErr := os.Stat(s.path)
	writeHeader := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open %s for append: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(core.Header); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(rec.Fields()); err != nil {
		return "", fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync %s: %w", s.path, err)
	}

	return fmt.Sprintf("row:%d", len(existing)+1), nil
}

// WriteAll exports a record collection to path in the backing file
// format, header included. Used for ad-hoc exports of filtered views.
func WriteAll(path string, records []core.Record) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(core.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Fields()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Sync()
}

// isHeader reports whether the first row of the file is a column header.
// Files written by older tooling carry no header; both forms load.
func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date")
}
