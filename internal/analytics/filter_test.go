package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

func TestFilterAbsentCriteriaReturnsAll(t *testing.T) {
	records := sample(t)
	got := Filter(records, Criteria{})
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i].Item != records[i].Item {
			t.Fatalf("order changed at %d: %q vs %q", i, got[i].Item, records[i].Item)
		}
	}
}

func TestFilterEmptySetDistinctFromAbsent(t *testing.T) {
	records := sample(t)

	// Explicitly empty category set: match nothing.
	got := Filter(records, Criteria{Categories: []string{}})
	if len(got) != 0 {
		t.Fatalf("empty category set should match nothing, got %d records", len(got))
	}

	// Absent category set: no restriction.
	got = Filter(records, Criteria{Months: []int{1, 2}})
	if len(got) != 3 {
		t.Fatalf("absent category set should not restrict, got %d records", len(got))
	}
}

func TestFilterByMonth(t *testing.T) {
	records := sample(t)
	got := Filter(records, Criteria{Months: []int{1}})
	if len(got) != 2 {
		t.Fatalf("expected 2 January records, got %d", len(got))
	}
	if got[0].Item != "Coffee" || got[1].Item != "Bus" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestFilterByAmountRange(t *testing.T) {
	records := sample(t)
	min := decimal.RequireFromString("3")
	max := decimal.RequireFromString("100")
	got := Filter(records, Criteria{MinAmount: &min, MaxAmount: &max})
	if len(got) != 1 || got[0].Item != "Coffee" {
		t.Fatalf("expected only Coffee, got %+v", got)
	}

	// Bounds are inclusive.
	exact := decimal.RequireFromString("2")
	got = Filter(records, Criteria{MinAmount: &exact, MaxAmount: &exact})
	if len(got) != 1 || got[0].Item != "Bus" {
		t.Fatalf("expected only Bus, got %+v", got)
	}
}

func TestFilterConjunctive(t *testing.T) {
	records := sample(t)
	got := Filter(records, Criteria{Months: []int{1}, Categories: []string{"Food"}})
	if len(got) != 1 || got[0].Item != "Coffee" {
		t.Fatalf("expected only Coffee, got %+v", got)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := sample(t)
	before := make([]core.Record, len(records))
	copy(before, records)
	_ = Filter(records, Criteria{Months: []int{2}})
	for i := range before {
		if records[i].Item != before[i].Item {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestCriteriaCacheKeyDistinguishesAbsentFromEmpty(t *testing.T) {
	absent := Criteria{}
	empty := Criteria{Categories: []string{}}
	if absent.CacheKey() == empty.CacheKey() {
		t.Fatalf("absent and empty criteria must not share a cache key")
	}
	if absent.CacheKey() != (Criteria{}).CacheKey() {
		t.Fatalf("cache key should be stable")
	}
}
