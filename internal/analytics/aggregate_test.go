package analytics

import (
	"errors"
	"testing"

	"tracker/internal/core"
)

func rec(t *testing.T, date, item, amount, category string) core.Record {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("date %q: %v", date, err)
	}
	a, err := core.ParseAmount(amount)
	if err != nil {
		t.Fatalf("amount %q: %v", amount, err)
	}
	return core.Record{Date: d, Item: item, Amount: a, Category: category}
}

func sample(t *testing.T) []core.Record {
	t.Helper()
	return []core.Record{
		rec(t, "2024-01-05", "Coffee", "4.50", "Food"),
		rec(t, "2024-01-10", "Bus", "2.00", "Transport"),
		rec(t, "2024-02-01", "Rent", "1200.00", "Housing"),
	}
}

func TestSumByKeyOrderIsFirstOccurrence(t *testing.T) {
	records := []core.Record{
		rec(t, "2024-03-01", "a", "1", "Zeta"),
		rec(t, "2024-03-02", "b", "2", "Alpha"),
		rec(t, "2024-03-03", "c", "3", "Zeta"),
	}
	totals := PerCategory(records)
	keys := totals.Keys()
	if len(keys) != 2 || keys[0] != "Zeta" || keys[1] != "Alpha" {
		t.Fatalf("expected insertion order [Zeta Alpha], got %v", keys)
	}
	if totals.Get("Zeta").String() != "4" {
		t.Fatalf("expected Zeta=4, got %s", totals.Get("Zeta"))
	}
}

func TestGroupingsAgreeOnTotal(t *testing.T) {
	records := sample(t)
	total := PerCategory(records).Sum()
	if !total.Equal(PerMonth(records).Sum()) {
		t.Fatalf("per-category and per-month totals disagree")
	}
	if total.String() != "1206.5" {
		t.Fatalf("expected 1206.5, got %s", total)
	}
}

func TestTopTieBreaksFirstSeen(t *testing.T) {
	records := []core.Record{
		rec(t, "2024-01-01", "a", "10", "Food"),
		rec(t, "2024-01-02", "b", "10", "Transport"),
	}
	for i := 0; i < 10; i++ {
		top, amount, err := PerCategory(records).Top()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if top != "Food" || amount.String() != "10" {
			t.Fatalf("iteration %d: expected Food/10, got %s/%s", i, top, amount)
		}
	}
}

func TestTopEmptyReturnsNoData(t *testing.T) {
	_, _, err := PerCategory(nil).Top()
	if !errors.Is(err, core.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestAverage(t *testing.T) {
	records := sample(t)
	avg := PerMonth(records).Average()
	if avg.String() != "603.25" {
		t.Fatalf("expected 603.25, got %s", avg)
	}

	single := records[:2] // January only
	if got := PerMonth(single).Average(); got.String() != "6.5" {
		t.Fatalf("single-month average should equal that month's total, got %s", got)
	}

	if got := PerMonth(nil).Average(); !got.IsZero() {
		t.Fatalf("empty average should be zero, got %s", got)
	}
}

func TestMonthlyTrendSortsAscending(t *testing.T) {
	records := []core.Record{
		rec(t, "2024-03-01", "a", "3", "Food"),
		rec(t, "2024-01-01", "b", "1", "Food"),
		rec(t, "2024-02-01", "c", "2", "Food"),
	}
	trend := MonthlyTrend(records)
	if len(trend) != 3 {
		t.Fatalf("expected 3 months, got %d", len(trend))
	}
	for i, want := range []int{1, 2, 3} {
		if trend[i].Month != want {
			t.Fatalf("position %d: expected month %d, got %d", i, want, trend[i].Month)
		}
	}
}

func TestCompareMonths(t *testing.T) {
	records := sample(t)

	got := CompareMonths(records, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 months, got %d", len(got))
	}
	if got[0].Month != 1 || got[0].Total.String() != "6.5" {
		t.Fatalf("unexpected first month: %+v", got[0])
	}
	if got[2].Month != 3 || !got[2].Total.IsZero() {
		t.Fatalf("empty month should carry zero total: %+v", got[2])
	}

	// No negative months at the start of the year.
	got = CompareMonths(records, 1)
	if len(got) != 1 || got[0].Month != 1 {
		t.Fatalf("expected only January, got %+v", got)
	}
}
