package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tracker/internal/service"
	"tracker/internal/store/memory"
)

func newTestServer(t *testing.T, seed bool) *Server {
	t.Helper()
	tracker := service.NewTracker(memory.New(), nil)
	if seed {
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
	}

	srv := NewServer(":0", tracker)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexRenders(t *testing.T) {
	srv := newTestServer(t, false)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Add expense") || !strings.Contains(body, "Food") {
		t.Fatalf("unexpected index body:\n%s", body)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers on responses")
	}
}

func TestIndexUnknownPath(t *testing.T) {
	srv := newTestServer(t, false)
	rec := do(srv, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateExpense(t *testing.T) {
	srv := newTestServer(t, false)

	form := url.Values{
		"date":     {"2024-01-05"},
		"item":     {"Coffee"},
		"amount":   {"4.50"},
		"category": {"Food"},
	}
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Coffee") {
		t.Fatalf("expected confirmation, got %q", rec.Body.String())
	}
	if rec.Header().Get("HX-Trigger") != "expense:created" {
		t.Fatalf("expected HX-Trigger header")
	}
}

func TestCreateExpenseRejectsBadAmount(t *testing.T) {
	srv := newTestServer(t, false)

	form := url.Values{
		"date":     {"2024-01-05"},
		"item":     {"Coffee"},
		"amount":   {"lots"},
		"category": {"Food"},
	}
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid amount") {
		t.Fatalf("expected field error, got %q", rec.Body.String())
	}
}

func TestCreateExpenseMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, false)
	rec := do(srv, httptest.NewRequest(http.MethodGet, "/expenses", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestSummaryPartial(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/ui/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "$1206.50") {
		t.Fatalf("expected grand total, got:\n%s", body)
	}
	if !strings.Contains(body, "Housing") {
		t.Fatalf("expected top category, got:\n%s", body)
	}
}

func TestSummaryPartialFiltered(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/ui/summary?months=1", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "$6.50") {
		t.Fatalf("expected filtered total, got:\n%s", body)
	}
	if strings.Contains(body, "Rent") {
		t.Fatalf("February record must be filtered out:\n%s", body)
	}
}

func TestSummaryPartialComparison(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/ui/summary?months=2", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "Versus previous months") {
		t.Fatalf("expected comparison block for a single-month filter, got:\n%s", body)
	}
	if !strings.Contains(body, "January") || !strings.Contains(body, "February") {
		t.Fatalf("expected neighboring months in comparison, got:\n%s", body)
	}
}

func TestSummaryPartialNoMatches(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/ui/summary?months=12", nil))
	if !strings.Contains(rec.Body.String(), "No expenses match") {
		t.Fatalf("expected no-match placeholder, got:\n%s", rec.Body.String())
	}
}

func TestSummaryPartialBadMonths(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/ui/summary?months=13", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSummaryCachePurgedOnWrite(t *testing.T) {
	srv := newTestServer(t, true)

	// Warm the cache.
	do(srv, httptest.NewRequest(http.MethodGet, "/ui/summary", nil))

	form := url.Values{
		"date":     {"2024-01-20"},
		"item":     {"Groceries"},
		"amount":   {"50.00"},
		"category": {"Food"},
	}
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := do(srv, req); rec.Code != http.StatusOK {
		t.Fatalf("append failed: %d", rec.Code)
	}

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/ui/summary", nil))
	if !strings.Contains(rec.Body.String(), "$1256.50") {
		t.Fatalf("expected refreshed total after write, got:\n%s", rec.Body.String())
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t, true)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/export?categories=Food", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected CSV content type, got %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Date,Item,Amount,Category\n") {
		t.Fatalf("expected header row, got %q", body)
	}
	if !strings.Contains(body, "Coffee") || strings.Contains(body, "Rent") {
		t.Fatalf("unexpected export contents: %q", body)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, false)

	if rec := do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	if rec := do(srv, httptest.NewRequest(http.MethodGet, "/readyz", nil)); rec.Code != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d", rec.Code)
	}
}

func TestRateLimitsWrites(t *testing.T) {
	srv := newTestServer(t, false)

	var last int
	for i := 0; i < 70; i++ {
		form := url.Values{
			"date":     {"2024-01-05"},
			"item":     {"Coffee"},
			"amount":   {"1.00"},
			"category": {"Food"},
		}
		req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "10.0.0.9:1234"
		last = do(srv, req).Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after sustained writes, got %d", last)
	}
}
