package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracker/internal/service"
	"tracker/internal/store/memory"
)

func runSession(t *testing.T, tracker *service.Tracker, input string) string {
	t.Helper()
	var out bytes.Buffer
	menu := NewMenu(tracker, strings.NewReader(input), &out)
	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("menu run: %v", err)
	}
	return out.String()
}

func seededTracker(t *testing.T) *service.Tracker {
	t.Helper()
	tracker := service.NewTracker(memory.New(), nil)
	ctx := context.Background()
	rows := [][4]string{
		{"2024-01-05", "Coffee", "4.50", "Food"},
		{"2024-01-10", "Bus", "2.00", "Transport"},
		{"2024-02-01", "Rent", "1200.00", "Housing"},
	}
	for _, row := range rows {
		if _, _, err := tracker.AppendOne(ctx, row[0], row[1], row[2], row[3]); err != nil {
			t.Fatalf("seed %q: %v", row[1], err)
		}
	}
	return tracker
}

func TestAddThenViewAll(t *testing.T) {
	tracker := service.NewTracker(memory.New(), nil)
	input := strings.Join([]string{
		"1",
		"2024-01-05",
		"Coffee",
		"4.50",
		"Food",
		"2",
		"7",
	}, "\n") + "\n"

	out := runSession(t, tracker, input)
	if !strings.Contains(out, "Added Coffee ($4.50)") {
		t.Fatalf("expected add confirmation, got:\n%s", out)
	}
	if !strings.Contains(out, "2024-01-05") || !strings.Contains(out, "Food") {
		t.Fatalf("expected listed record, got:\n%s", out)
	}
}

func TestAddRejectsBadAmount(t *testing.T) {
	tracker := service.NewTracker(memory.New(), nil)
	input := "1\n2024-01-05\nCoffee\nlots\nFood\n7\n"

	out := runSession(t, tracker, input)
	if !strings.Contains(out, "Error:") {
		t.Fatalf("expected error output, got:\n%s", out)
	}

	records, err := tracker.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("rejected expense must not persist, got %d", len(records))
	}
}

func TestTotalAndSummary(t *testing.T) {
	out := runSession(t, seededTracker(t), "3\n4\n7\n")

	if !strings.Contains(out, "Total spent: $1206.50 across 3 expenses") {
		t.Fatalf("expected grand total, got:\n%s", out)
	}
	if !strings.Contains(out, "Top category:     Housing ($1200.00)") {
		t.Fatalf("expected top category line, got:\n%s", out)
	}
	if !strings.Contains(out, "Monthly average:  $603.25") {
		t.Fatalf("expected monthly average, got:\n%s", out)
	}
}

func TestFilterAndSummarize(t *testing.T) {
	// Option 5 with months=1, all categories, no bounds.
	out := runSession(t, seededTracker(t), "5\n1\n\n\n\n7\n")

	if !strings.Contains(out, "Coffee") || !strings.Contains(out, "Bus") {
		t.Fatalf("expected January records, got:\n%s", out)
	}
	if strings.Contains(out, "Rent") {
		t.Fatalf("February record must be filtered out:\n%s", out)
	}
	if !strings.Contains(out, "Total:            $6.50") {
		t.Fatalf("expected filtered total, got:\n%s", out)
	}
}

func TestFilterNoMatches(t *testing.T) {
	out := runSession(t, seededTracker(t), "5\n12\n\n\n\n7\n")
	if !strings.Contains(out, "No expenses match the filter.") {
		t.Fatalf("expected no-match message, got:\n%s", out)
	}
}

func TestExportFiltered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "january.csv")
	input := "6\n1\n\n\n\n" + path + "\n7\n"

	out := runSession(t, seededTracker(t), input)
	if !strings.Contains(out, "Exported 2 expenses") {
		t.Fatalf("expected export confirmation, got:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Date,Item,Amount,Category\n") {
		t.Fatalf("expected header row, got %q", string(data))
	}
	if !strings.Contains(string(data), "Coffee") || strings.Contains(string(data), "Rent") {
		t.Fatalf("unexpected export contents: %q", string(data))
	}
}

func TestUnknownOption(t *testing.T) {
	out := runSession(t, seededTracker(t), "9\n7\n")
	if !strings.Contains(out, `Unknown option "9"`) {
		t.Fatalf("expected unknown option message, got:\n%s", out)
	}
}

func TestEOFExits(t *testing.T) {
	runSession(t, seededTracker(t), "")
}
