// Package service orchestrates tracker operations across the record
// store, the analytics engine and the optional AMQP publisher.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/internal/amqp"
	"tracker/internal/analytics"
	"tracker/internal/core"
	"tracker/internal/store"
	"tracker/internal/store/csvfile"
)

type Tracker struct {
	store      store.Store
	amqpClient *amqp.Client
}

func NewTracker(s store.Store, amqpClient *amqp.Client) *Tracker {
	return &Tracker{
		store:      s,
		amqpClient: amqpClient,
	}
}

// AppendOne normalizes raw field values into a record, persists it and
// publishes a record.added event. Publish failures are logged but never
// fail the operation once the record is on disk.
func (t *Tracker) AppendOne(ctx context.Context, date, item, amount, category string) (core.Record, string, error) {
	rec, err := core.ParseRecord([]string{date, item, amount, category}, 0)
	if err != nil {
		return core.Record{}, "", err
	}

	ref, err := t.store.Append(ctx, rec)
	if err != nil {
		return core.Record{}, "", fmt.Errorf("save record: %w", err)
	}

	t.publishRecordAdded(ctx, rec)

	return rec, ref, nil
}

// LoadAll returns every persisted record in storage order.
func (t *Tracker) LoadAll(ctx context.Context) ([]core.Record, error) {
	return t.store.Load(ctx)
}

// FilterAndSummarize narrows records by the criteria and summarizes the
// matching subset. An empty subset yields core.ErrNoData.
func (t *Tracker) FilterAndSummarize(ctx context.Context, c analytics.Criteria) ([]core.Record, analytics.Summary, error) {
	records, err := t.store.Load(ctx)
	if err != nil {
		return nil, analytics.Summary{}, fmt.Errorf("load records: %w", err)
	}

	matched := analytics.Filter(records, c)
	summary, err := analytics.Summarize(matched)
	if err != nil {
		return matched, analytics.Summary{}, err
	}

	return matched, summary, nil
}

// ExportSubset writes the records to a standalone CSV file at path.
func (t *Tracker) ExportSubset(records []core.Record, path string) error {
	return csvfile.WriteAll(path, records)
}

func (t *Tracker) publishRecordAdded(ctx context.Context, rec core.Record) {
	if t.amqpClient == nil {
		return
	}

	if err := t.amqpClient.PublishRecordAdded(ctx, amqp.NewRecordAddedMessage(rec)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record.added event",
			"item", rec.Item, "error", err)
	}
}

// Close releases the AMQP connection if one was configured.
func (t *Tracker) Close() error {
	if t.amqpClient != nil {
		return t.amqpClient.Close()
	}
	return nil
}
