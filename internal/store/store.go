// Package store defines the ports between the record store and its
// consumers. Implementations live in the subpackages (csvfile, memory)
// and in internal/storage for the SQLite backend.
package store

import (
	"context"

	"tracker/internal/core"
)

type (
	// Loader reads the full record collection from the backing store.
	// A store that does not exist yet loads as an empty collection, not
	// an error; any other I/O failure propagates.
	Loader interface {
		Load(ctx context.Context) ([]core.Record, error)
	}

	// Appender persists one new record at the end of the store and
	// returns an implementation-specific row reference. The record must
	// be durably written before Append returns.
	Appender interface {
		Append(ctx context.Context, r core.Record) (rowRef string, err error)
	}

	// Store combines both ports. The backing store is the single source
	// of truth; loaded collections are snapshots that go stale once the
	// store is mutated elsewhere.
	Store interface {
		Loader
		Appender
	}
)
