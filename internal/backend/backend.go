// Package backend selects and constructs the record store implementation
// named by the configuration.
package backend

import "context"

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Type represents the kind of record store backing the tracker
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types
func Types() []Type {
	return []Type{CSVBackend, SQLiteBackend, MemoryBackend}
}

// Config holds everything needed to construct a store
type Config struct {
	Type Type

	// CSV specific
	CSVPath     string
	LenientLoad bool

	// SQLite specific
	SQLiteDBPath string
}

// Factory creates record stores based on configuration
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}
