package analytics

import (
	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// Summary is the fixed set of headline statistics computed once per
// filtered view and consumed by every presentation layer. It is derived,
// never persisted.
type Summary struct {
	Total             decimal.Decimal
	AverageMonthly    decimal.Decimal
	TopCategory       string
	TopCategoryAmount decimal.Decimal
	Largest           decimal.Decimal
	Count             int
	ByCategory        []CategoryAmount
	ByMonth           []MonthAmount
}

// Summarize composes the aggregation engine into a Summary. The empty
// collection has no valid top category and returns core.ErrNoData rather
// than a zero-valued summary with a fabricated one.
func Summarize(records []core.Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, core.ErrNoData
	}

	perCategory := PerCategory(records)
	perMonth := PerMonth(records)

	topCategory, topAmount, err := perCategory.Top()
	if err != nil {
		return Summary{}, err
	}

	largest := records[0].Amount
	for _, r := range records[1:] {
		if r.Amount.GreaterThan(largest) {
			largest = r.Amount
		}
	}

	s := Summary{
		Total:             perCategory.Sum(),
		AverageMonthly:    perMonth.Average(),
		TopCategory:       topCategory,
		TopCategoryAmount: topAmount,
		Largest:           largest,
		Count:             len(records),
	}
	for _, name := range perCategory.Keys() {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Total: perCategory.Get(name)})
	}
	for _, m := range perMonth.Keys() {
		s.ByMonth = append(s.ByMonth, MonthAmount{Month: m, Total: perMonth.Get(m)})
	}
	return s, nil
}
