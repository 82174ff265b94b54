package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tracker/internal/analytics"
	"tracker/internal/core"
	"tracker/internal/service"
)

// Menu drives the interactive console loop. Input and output are plain
// streams so tests can script a session.
type Menu struct {
	tracker *service.Tracker
	in      *bufio.Scanner
	out     io.Writer
}

func NewMenu(tracker *service.Tracker, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		tracker: tracker,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run loops over the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printf("\n==== Expense Tracker ====\n")
		m.printf("1. Add expense\n")
		m.printf("2. View all expenses\n")
		m.printf("3. Total spent\n")
		m.printf("4. Summary\n")
		m.printf("5. Filter and summarize\n")
		m.printf("6. Export filtered view\n")
		m.printf("7. Exit\n")

		choice, ok := m.prompt("Choose an option: ")
		if !ok {
			return nil
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = m.addExpense(ctx)
		case "2":
			err = m.viewAll(ctx)
		case "3":
			err = m.totalSpent(ctx)
		case "4":
			err = m.summary(ctx)
		case "5":
			err = m.filterAndSummarize(ctx)
		case "6":
			err = m.exportFiltered(ctx)
		case "7":
			m.printf("Bye.\n")
			return nil
		default:
			m.printf("Unknown option %q.\n", strings.TrimSpace(choice))
		}
		if err != nil {
			m.printf("Error: %v\n", err)
		}
	}
}

func (m *Menu) addExpense(ctx context.Context) error {
	date, ok := m.prompt("Date (YYYY-MM-DD, blank for today): ")
	if !ok {
		return nil
	}
	if strings.TrimSpace(date) == "" {
		date = time.Now().Format(core.DateLayout)
	}

	item, ok := m.prompt("Item: ")
	if !ok {
		return nil
	}
	amount, ok := m.prompt("Amount: ")
	if !ok {
		return nil
	}

	m.printf("Suggested categories: %s\n", strings.Join(core.Categories, ", "))
	category, ok := m.prompt("Category: ")
	if !ok {
		return nil
	}

	rec, ref, err := m.tracker.AppendOne(ctx, strings.TrimSpace(date), strings.TrimSpace(item), strings.TrimSpace(amount), strings.TrimSpace(category))
	if err != nil {
		return err
	}
	m.printf("Added %s (%s) at %s.\n", rec.Item, core.FormatUSD(rec.Amount), ref)
	return nil
}

func (m *Menu) viewAll(ctx context.Context) error {
	records, err := m.tracker.LoadAll(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		m.printf("No expenses recorded yet.\n")
		return nil
	}
	m.printRecords(records)
	return nil
}

func (m *Menu) totalSpent(ctx context.Context) error {
	records, err := m.tracker.LoadAll(ctx)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	m.printf("Total spent: %s across %d expenses.\n", core.FormatUSD(total), len(records))
	return nil
}

func (m *Menu) summary(ctx context.Context) error {
	_, summary, err := m.tracker.FilterAndSummarize(ctx, analytics.Criteria{})
	if err == core.ErrNoData {
		m.printf("No expenses recorded yet.\n")
		return nil
	}
	if err != nil {
		return err
	}
	m.printSummary(summary)
	return nil
}

func (m *Menu) filterAndSummarize(ctx context.Context) error {
	criteria, ok, err := m.promptCriteria()
	if !ok || err != nil {
		return err
	}

	matched, summary, err := m.tracker.FilterAndSummarize(ctx, criteria)
	if err == core.ErrNoData {
		m.printf("No expenses match the filter.\n")
		return nil
	}
	if err != nil {
		return err
	}

	m.printRecords(matched)
	m.printSummary(summary)
	return nil
}

func (m *Menu) exportFiltered(ctx context.Context) error {
	criteria, ok, err := m.promptCriteria()
	if !ok || err != nil {
		return err
	}

	path, ok := m.prompt("Export file path: ")
	if !ok {
		return nil
	}
	path = strings.TrimSpace(path)
	if path == "" {
		m.printf("Export cancelled, no path given.\n")
		return nil
	}

	matched, _, err := m.tracker.FilterAndSummarize(ctx, criteria)
	if err == core.ErrNoData {
		m.printf("No expenses match the filter, nothing exported.\n")
		return nil
	}
	if err != nil {
		return err
	}

	if err := m.tracker.ExportSubset(matched, path); err != nil {
		return err
	}
	m.printf("Exported %d expenses to %s.\n", len(matched), path)
	return nil
}

// promptCriteria collects filter input. Blank answers leave a dimension
// unrestricted.
func (m *Menu) promptCriteria() (analytics.Criteria, bool, error) {
	var c analytics.Criteria

	months, ok := m.prompt("Months (1-12, comma separated, blank for all): ")
	if !ok {
		return c, false, nil
	}
	parsedMonths, err := parseMonths(months)
	if err != nil {
		return c, true, err
	}
	c.Months = parsedMonths

	categories, ok := m.prompt("Categories (comma separated, blank for all): ")
	if !ok {
		return c, false, nil
	}
	c.Categories = parseList(categories)

	minRaw, ok := m.prompt("Minimum amount (blank for none): ")
	if !ok {
		return c, false, nil
	}
	c.MinAmount, err = parseOptionalAmount(minRaw)
	if err != nil {
		return c, true, err
	}

	maxRaw, ok := m.prompt("Maximum amount (blank for none): ")
	if !ok {
		return c, false, nil
	}
	c.MaxAmount, err = parseOptionalAmount(maxRaw)
	if err != nil {
		return c, true, err
	}

	return c, true, nil
}

func (m *Menu) printRecords(records []core.Record) {
	m.printf("%-12s %-24s %12s  %s\n", "Date", "Item", "Amount", "Category")
	for _, r := range records {
		m.printf("%-12s %-24s %12s  %s\n",
			r.Date.Format(core.DateLayout), r.Item, core.FormatUSD(r.Amount), r.Category)
	}
}

func (m *Menu) printSummary(s analytics.Summary) {
	m.printf("\n-- Summary --\n")
	m.printf("Total:            %s\n", core.FormatUSD(s.Total))
	m.printf("Monthly average:  %s\n", core.FormatUSD(s.AverageMonthly))
	m.printf("Top category:     %s (%s)\n", s.TopCategory, core.FormatUSD(s.TopCategoryAmount))
	m.printf("Largest expense:  %s\n", core.FormatUSD(s.Largest))
	m.printf("Expenses counted: %d\n", s.Count)
	for _, c := range s.ByCategory {
		m.printf("  %-16s %s\n", c.Name, core.FormatUSD(c.Total))
	}
	for _, mo := range s.ByMonth {
		m.printf("  %-16s %s\n", time.Month(mo.Month).String(), core.FormatUSD(mo.Total))
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func parseMonths(raw string) ([]int, error) {
	parts := parseList(raw)
	if parts == nil {
		return nil, nil
	}
	months := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 12 {
			return nil, fmt.Errorf("invalid month %q: must be 1-12", p)
		}
		months = append(months, n)
	}
	return months, nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseOptionalAmount(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := core.ParseAmount(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
