package backend

import (
	"context"
	"path/filepath"
	"testing"

	"tracker/internal/config"
	"tracker/internal/core"
)

func TestCreateStorePerType(t *testing.T) {
	dir := t.TempDir()
	factory := NewFactory(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cfg  Config
	}{
		{"csv", Config{Type: CSVBackend, CSVPath: filepath.Join(dir, "a.csv")}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "a.db")}},
		{"memory", Config{Type: MemoryBackend}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := factory.CreateStore(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("create %s store: %v", tc.name, err)
			}
			defer func() {
				if result.Cleanup != nil {
					result.Cleanup()
				}
			}()

			rec, err := core.ParseRecord([]string{"2024-01-05", "Coffee", "4.50", "Food"}, 0)
			if err != nil {
				t.Fatalf("record: %v", err)
			}
			if _, err := result.Store.Append(ctx, rec); err != nil {
				t.Fatalf("append: %v", err)
			}
			got, err := result.Store.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 record, got %d", len(got))
			}
		})
	}
}

func TestCreateStoreRejectsUnknownType(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.CreateStore(context.Background(), Config{Type: "postgres"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestCreateStoreRequiresPaths(t *testing.T) {
	factory := NewFactory(nil)
	ctx := context.Background()

	if _, err := factory.CreateStore(ctx, Config{Type: CSVBackend}); err == nil {
		t.Fatalf("expected error for missing CSV path")
	}
	if _, err := factory.CreateStore(ctx, Config{Type: SQLiteBackend}); err == nil {
		t.Fatalf("expected error for missing SQLite path")
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "csv",
		CSVPath:      "/tmp/x.csv",
		LenientLoad:  true,
		SQLiteDBPath: "/tmp/x.db",
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if cfg.Type != CSVBackend || !cfg.LenientLoad || cfg.CSVPath != "/tmp/x.csv" {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "redis"}); err == nil {
		t.Fatalf("expected error for invalid backend name")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
