// Package sheets pushes record snapshots to a Google Sheets spreadsheet
// using service account credentials. Export is one way: the spreadsheet
// mirrors the local store and is never read back.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tracker/internal/config"
	"tracker/internal/core"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates an exporter from the application config. Credentials come
// from GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE.
func New(ctx context.Context, cfg *config.Config) (*Exporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing Google Spreadsheet ID")
	}
	if cfg.GoogleSheetName == "" {
		return nil, errors.New("missing Google Sheet name")
	}

	credentialsJSON, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

func resolveCredentials(cfg *config.Config) ([]byte, error) {
	switch {
	case cfg.GoogleCredentialsJSON != "":
		return []byte(cfg.GoogleCredentialsJSON), nil
	case cfg.GoogleCredentialsFile != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}
}

// Export replaces the sheet contents with a header row followed by one
// row per record.
func (e *Exporter) Export(ctx context.Context, records []core.Record) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:D", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", e.sheetName, err)
	}

	values := make([][]any, 0, len(records)+1)
	header := make([]any, len(core.Header))
	for i, h := range core.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range records {
		values = append(values, []any{
			r.Date.Format(core.DateLayout),
			r.Item,
			r.Amount.String(),
			r.Category,
		})
	}

	writeRange := fmt.Sprintf("%s!A1:D%d", e.sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported records to Google Sheets",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"rows", len(records))

	return nil
}
