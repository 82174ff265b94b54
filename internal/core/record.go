package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date format used everywhere a date is persisted
// or displayed.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyItem     = errors.New("empty item")
	ErrEmptyCategory = errors.New("empty category")

	// ErrNoData signals an aggregation requested over an empty collection,
	// e.g. the top category of zero records.
	ErrNoData = errors.New("no data")
)

// Header names the four persisted columns, in file order.
var Header = []string{"Date", "Item", "Amount", "Category"}

// Categories is the suggestion set offered by input forms. The store does
// not enforce membership; any non-empty label is accepted.
var Categories = []string{
	"Food", "Transport", "Housing", "Education", "Medical",
	"Insurance", "Utilities", "Shopping", "Fitness", "Entertainment",
}

// ParseError reports a malformed row or field together with its position
// in the backing file. Line is 1-based; zero means the position is unknown
// (direct user input rather than a file row).
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("row %d: field %q: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record is one expense transaction. Amount is signed: refunds may be
// stored as negative values and flow into totals as-is.
type Record struct {
	Date     time.Time
	Item     string
	Amount   decimal.Decimal
	Category string
}

// NewDate builds a calendar date at UTC midnight.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Month returns the calendar month (1-12). Derived from Date, never stored.
func (r Record) Month() int {
	return int(r.Date.Month())
}

// MonthName returns the locale-independent full month name ("January").
func (r Record) MonthName() string {
	return r.Date.Month().String()
}

// Quarter returns the calendar quarter (1-4).
func (r Record) Quarter() int {
	return (r.Month()-1)/3 + 1
}

func (r Record) Validate() error {
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(r.Item) == "" {
		return ErrEmptyItem
	}
	if len(r.Item) > 200 {
		return errors.New("item too long (max 200 characters)")
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Fields returns the record as a row in persisted column order, with the
// date normalized to ISO form.
func (r Record) Fields() []string {
	return []string{
		r.Date.Format(DateLayout),
		r.Item,
		r.Amount.String(),
		r.Category,
	}
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseRecord parses one raw row into a typed Record. It fails with a
// *ParseError when the row has the wrong field count, the date is not a
// valid calendar date, or the amount does not parse as a decimal number.
// The item and category fields are only trimmed here; emptiness is caught
// by Validate.
func ParseRecord(row []string, line int) (Record, error) {
	if len(row) != len(Header) {
		return Record{}, &ParseError{
			Line:  line,
			Field: "row",
			Err:   fmt.Errorf("expected %d fields, got %d", len(Header), len(row)),
		}
	}
	date, err := ParseDate(row[0])
	if err != nil {
		return Record{}, &ParseError{Line: line, Field: "date", Err: err}
	}
	amount, err := ParseAmount(row[2])
	if err != nil {
		return Record{}, &ParseError{Line: line, Field: "amount", Err: err}
	}
	rec := Record{
		Date:     date,
		Item:     strings.TrimSpace(row[1]),
		Amount:   amount,
		Category: strings.TrimSpace(row[3]),
	}
	if err := rec.Validate(); err != nil {
		field := "item"
		if errors.Is(err, ErrEmptyCategory) {
			field = "category"
		}
		return Record{}, &ParseError{Line: line, Field: field, Err: err}
	}
	return rec, nil
}
