package http

import (
	"encoding/csv"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tracker/internal/analytics"
	"tracker/internal/core"
)

// summaryView is the template payload for the summary partial. It is
// what the per-criteria cache stores.
type summaryView struct {
	Total          string
	AverageMonthly string
	TopCategory    string
	TopAmount      string
	Largest        string
	Count          int
	ByCategory     []nameAmount
	ByMonth        []nameAmount
	Comparison     []nameAmount
	Records        []recordRow
}

type nameAmount struct {
	Name   string
	Amount string
}

type recordRow struct {
	Date     string
	Item     string
	Amount   string
	Category string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today      string
		Categories []string
	}{
		Today:      time.Now().Format(core.DateLayout),
		Categories: core.Categories,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	date := strings.TrimSpace(r.Form.Get("date"))
	if date == "" {
		date = time.Now().Format(core.DateLayout)
	}
	item := sanitizeInput(r.Form.Get("item"))
	amount := strings.TrimSpace(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))

	rec, ref, err := s.tracker.AppendOne(r.Context(), date, item, amount, category)
	if err != nil {
		var perr *core.ParseError
		if errors.As(err, &perr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid ` + template.HTMLEscapeString(perr.Field) + `</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Expense append error", "error", err, "item", item)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not save the expense</div>`))
		return
	}

	// Stale summaries must never survive a write.
	s.summaryCache.Purge()

	w.Header().Set("HX-Trigger", "expense:created")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded (#` + template.HTMLEscapeString(ref) + `): ` +
		template.HTMLEscapeString(rec.Item) +
		` ` + template.HTMLEscapeString(core.FormatUSD(rec.Amount)) +
		` (` + template.HTMLEscapeString(rec.Category) + `)</div>`))
}

// handleSummary renders the filtered summary partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="error">` + template.HTMLEscapeString(err.Error()) + `</div></section>`))
		return
	}

	key := criteria.CacheKey()
	view, found := s.summaryCache.Get(key)
	if !found {
		matched, summary, err := s.tracker.FilterAndSummarize(r.Context(), criteria)
		if err == core.ErrNoData {
			_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">No expenses match the current filter.</div></section>`))
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Summary error", "error", err)
			_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="error">Could not load the summary</div></section>`))
			return
		}
		view = buildSummaryView(matched, summary)
		view.Comparison = s.monthComparison(r, criteria)
		s.summaryCache.Set(key, view)
		slog.DebugContext(r.Context(), "Summary cached", "key", key, "count", view.Count)
	} else {
		slog.DebugContext(r.Context(), "Summary cache hit", "key", key)
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Total: ` + template.HTMLEscapeString(view.Total) + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "summary.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="error">Could not render the summary</div></section>`))
	}
}

// handleExport streams the filtered records as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	matched, _, err := s.tracker.FilterAndSummarize(r.Context(), criteria)
	if err != nil && err != core.ErrNoData {
		slog.ErrorContext(r.Context(), "Export error", "error", err)
		http.Error(w, "could not load records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(core.Header); err != nil {
		slog.ErrorContext(r.Context(), "Export write error", "error", err)
		return
	}
	for _, rec := range matched {
		if err := cw.Write(rec.Fields()); err != nil {
			slog.ErrorContext(r.Context(), "Export write error", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "Export flush error", "error", err)
	}
}

// monthComparison renders the selected month against up to two preceding
// months when the filter names exactly one month. The month restriction
// is lifted so the neighboring months keep their totals; every other
// criterion still applies.
func (s *Server) monthComparison(r *http.Request, criteria analytics.Criteria) []nameAmount {
	if len(criteria.Months) != 1 {
		return nil
	}

	broad := criteria
	broad.Months = nil
	records, _, err := s.tracker.FilterAndSummarize(r.Context(), broad)
	if err != nil && err != core.ErrNoData {
		slog.ErrorContext(r.Context(), "Month comparison error", "error", err)
		return nil
	}

	var out []nameAmount
	for _, m := range analytics.CompareMonths(records, criteria.Months[0]) {
		out = append(out, nameAmount{Name: time.Month(m.Month).String(), Amount: core.FormatUSD(m.Total)})
	}
	return out
}

func buildSummaryView(records []core.Record, summary analytics.Summary) summaryView {
	view := summaryView{
		Total:          core.FormatUSD(summary.Total),
		AverageMonthly: core.FormatUSD(summary.AverageMonthly),
		TopCategory:    summary.TopCategory,
		TopAmount:      core.FormatUSD(summary.TopCategoryAmount),
		Largest:        core.FormatUSD(summary.Largest),
		Count:          summary.Count,
	}
	for _, c := range summary.ByCategory {
		view.ByCategory = append(view.ByCategory, nameAmount{Name: c.Name, Amount: core.FormatUSD(c.Total)})
	}
	// Trend display wants calendar order, not first-occurrence order.
	for _, m := range analytics.MonthlyTrend(records) {
		view.ByMonth = append(view.ByMonth, nameAmount{Name: time.Month(m.Month).String(), Amount: core.FormatUSD(m.Total)})
	}
	for _, rec := range records {
		view.Records = append(view.Records, recordRow{
			Date:     rec.Date.Format(core.DateLayout),
			Item:     rec.Item,
			Amount:   core.FormatUSD(rec.Amount),
			Category: rec.Category,
		})
	}
	return view
}

// criteriaFromQuery maps query parameters onto filter criteria. Absent
// parameters leave their dimension unrestricted.
func criteriaFromQuery(r *http.Request) (analytics.Criteria, error) {
	var c analytics.Criteria
	q := r.URL.Query()

	if raw, ok := q["months"]; ok && len(raw) > 0 {
		months := []int{}
		for _, part := range splitList(raw[0]) {
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 || n > 12 {
				return c, errors.New("months must be numbers between 1 and 12")
			}
			months = append(months, n)
		}
		c.Months = months
	}

	if raw, ok := q["categories"]; ok && len(raw) > 0 {
		c.Categories = splitList(raw[0])
		if c.Categories == nil {
			c.Categories = []string{}
		}
	}

	if raw := strings.TrimSpace(q.Get("min")); raw != "" {
		d, err := core.ParseAmount(raw)
		if err != nil {
			return c, errors.New("min must be a decimal amount")
		}
		c.MinAmount = &d
	}
	if raw := strings.TrimSpace(q.Get("max")); raw != "" {
		d, err := core.ParseAmount(raw)
		if err != nil {
			return c, errors.New("max must be a decimal amount")
		}
		c.MaxAmount = &d
	}

	return c, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
