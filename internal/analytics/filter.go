package analytics

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// Criteria narrows a record collection. For the slice criteria, nil means
// "no restriction" while a non-nil empty slice means "match nothing":
// an empty multi-select in a presentation layer is a valid
// exclude-everything filter. Nil amount bounds mean unbounded.
type Criteria struct {
	Months     []int
	Categories []string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// IsZero reports whether no criterion is present at all.
func (c Criteria) IsZero() bool {
	return c.Months == nil && c.Categories == nil && c.MinAmount == nil && c.MaxAmount == nil
}

// Matches reports whether a record satisfies every present criterion.
func (c Criteria) Matches(r core.Record) bool {
	if c.Months != nil && !containsInt(c.Months, r.Month()) {
		return false
	}
	if c.Categories != nil && !containsString(c.Categories, r.Category) {
		return false
	}
	if c.MinAmount != nil && r.Amount.LessThan(*c.MinAmount) {
		return false
	}
	if c.MaxAmount != nil && r.Amount.GreaterThan(*c.MaxAmount) {
		return false
	}
	return true
}

// CacheKey returns a stable string identifying the criteria, used to key
// cached summary views.
func (c Criteria) CacheKey() string {
	var b strings.Builder
	b.WriteString("m=")
	if c.Months != nil {
		for i, m := range c.Months {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(m))
		}
	} else {
		b.WriteByte('*')
	}
	b.WriteString(";c=")
	if c.Categories != nil {
		b.WriteString(strings.Join(c.Categories, ","))
	} else {
		b.WriteByte('*')
	}
	b.WriteString(";min=")
	if c.MinAmount != nil {
		b.WriteString(c.MinAmount.String())
	}
	b.WriteString(";max=")
	if c.MaxAmount != nil {
		b.WriteString(c.MaxAmount.String())
	}
	return b.String()
}

// Filter returns the sub-sequence of records matching the criteria,
// preserving the original order. The input is never mutated.
func Filter(records []core.Record, c Criteria) []core.Record {
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
