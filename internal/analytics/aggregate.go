// Package analytics implements the shared filtering and aggregation
// engine consumed by every presentation layer (console, web). It works on
// in-memory record collections and never touches the backing store.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// Totals holds grouped sums keyed by K. Key order is the order of first
// occurrence in the source records, not sorted; consumers that need sorted
// output sort explicitly.
type Totals[K comparable] struct {
	keys []K
	sums map[K]decimal.Decimal
}

// SumBy groups records by keyFn and sums Amount per group.
func SumBy[K comparable](records []core.Record, keyFn func(core.Record) K) *Totals[K] {
	t := &Totals[K]{sums: make(map[K]decimal.Decimal, len(records))}
	for _, r := range records {
		k := keyFn(r)
		if _, seen := t.sums[k]; !seen {
			t.keys = append(t.keys, k)
		}
		t.sums[k] = t.sums[k].Add(r.Amount)
	}
	return t
}

// Keys returns the group keys in first-occurrence order.
func (t *Totals[K]) Keys() []K {
	return append([]K(nil), t.keys...)
}

// Get returns the total for a key; zero when the key is absent.
func (t *Totals[K]) Get(k K) decimal.Decimal {
	return t.sums[k]
}

// Len returns the number of groups.
func (t *Totals[K]) Len() int {
	return len(t.keys)
}

// Sum returns the grand total across all groups.
func (t *Totals[K]) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, k := range t.keys {
		total = total.Add(t.sums[k])
	}
	return total
}

// Top returns the key with the maximum total. Ties are broken by
// first-occurrence order, deterministically across repeated calls.
// Returns core.ErrNoData when there are no groups.
func (t *Totals[K]) Top() (K, decimal.Decimal, error) {
	var zero K
	if len(t.keys) == 0 {
		return zero, decimal.Zero, core.ErrNoData
	}
	best := t.keys[0]
	bestSum := t.sums[best]
	for _, k := range t.keys[1:] {
		if t.sums[k].GreaterThan(bestSum) {
			best = k
			bestSum = t.sums[k]
		}
	}
	return best, bestSum, nil
}

// Average returns the arithmetic mean of the group totals, zero when
// there are no groups.
func (t *Totals[K]) Average() decimal.Decimal {
	if len(t.keys) == 0 {
		return decimal.Zero
	}
	return t.Sum().Div(decimal.NewFromInt(int64(len(t.keys))))
}

// PerCategory groups records by category.
func PerCategory(records []core.Record) *Totals[string] {
	return SumBy(records, func(r core.Record) string { return r.Category })
}

// PerMonth groups records by calendar month (1-12).
func PerMonth(records []core.Record) *Totals[int] {
	return SumBy(records, func(r core.Record) int { return r.Month() })
}

// MonthAmount is a per-month total for chart rendering.
type MonthAmount struct {
	Month int
	Total decimal.Decimal
}

// CategoryAmount is a per-category total for chart rendering.
type CategoryAmount struct {
	Name  string
	Total decimal.Decimal
}

// MonthlyTrend returns per-month totals sorted ascending by month, for
// the monthly spending trend chart.
func MonthlyTrend(records []core.Record) []MonthAmount {
	perMonth := PerMonth(records)
	months := perMonth.Keys()
	sort.Ints(months)
	out := make([]MonthAmount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthAmount{Month: m, Total: perMonth.Get(m)})
	}
	return out
}

// CompareMonths returns totals for the selected month and up to two
// preceding months, ordered ascending. Months with no records appear with
// a zero total so the comparison chart keeps its shape.
func CompareMonths(records []core.Record, month int) []MonthAmount {
	perMonth := PerMonth(records)
	first := month - 2
	if first < 1 {
		first = 1
	}
	out := make([]MonthAmount, 0, 3)
	for m := first; m <= month; m++ {
		out = append(out, MonthAmount{Month: m, Total: perMonth.Get(m)})
	}
	return out
}
