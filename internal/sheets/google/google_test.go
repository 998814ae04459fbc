package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"buget/internal/core"
	"buget/internal/metrics"
	"buget/internal/sheets"
)

type fakeSheets struct {
	mu      sync.Mutex
	headers map[string]bool
	gets    int
	updates int
	appends []string
}

func (f *fakeSheets) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		body, _ := io.ReadAll(r.Body)
		path := r.URL.Path
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
			f.gets++
			if f.headers["2026 Buget"] {
				_, _ = io.WriteString(w, `{"range":"'2026 Buget'!A1","values":[["Exported at"]]}`)
				return
			}
			_, _ = io.WriteString(w, `{"range":"'2026 Buget'!A1"}`)
		case r.Method == http.MethodPut:
			f.updates++
			f.headers["2026 Buget"] = true
			_, _ = io.WriteString(w, `{"updatedRows":1}`)
		case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
			var vr gsheet.ValueRange
			if err := json.Unmarshal(body, &vr); err != nil {
				t.Errorf("decode append body: %v", err)
			}
			f.appends = append(f.appends, string(body))
			_, _ = io.WriteString(w, `{"updates":{"updatedRange":"'2026 Buget'!A2:M2"}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return NewWithService(svc, "sheet-id", "Buget", nil)
}

func testExport() sheets.Export {
	return sheets.Export{
		Email:      "ana@example.com",
		ExportedAt: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
		Dashboard: metrics.BuildDashboard(core.PeriodCurrent, core.PeriodSummary{
			PeriodKey:   "2026-10",
			TotalIncome: decimal.NewFromInt(3000),
			TotalDebts:  decimal.NewFromInt(1200),
			Remaining:   decimal.NewFromInt(1800),
		}),
	}
}

func TestExportDashboard(t *testing.T) {
	f := &fakeSheets{headers: map[string]bool{}}
	c := newTestClient(t, f)

	for i := 0; i < 2; i++ {
		ref, err := c.ExportDashboard(context.Background(), testExport())
		if err != nil {
			t.Fatalf("ExportDashboard() #%d error = %v", i+1, err)
		}
		if ref != "'2026 Buget'!A2:M2" {
			t.Errorf("ref = %q", ref)
		}
	}

	if f.updates != 1 {
		t.Errorf("header written %d times, want 1", f.updates)
	}
	if f.gets != 1 {
		t.Errorf("header checked %d times, want once per sheet", f.gets)
	}
	if len(f.appends) != 2 || !strings.Contains(f.appends[0], "1800.00") || !strings.Contains(f.appends[0], "ana@example.com") {
		t.Errorf("appends = %v", f.appends)
	}
}

func TestExportDashboardExistingHeader(t *testing.T) {
	f := &fakeSheets{headers: map[string]bool{"2026 Buget": true}}
	c := newTestClient(t, f)

	if _, err := c.ExportDashboard(context.Background(), testExport()); err != nil {
		t.Fatalf("ExportDashboard() error = %v", err)
	}
	if f.updates != 0 {
		t.Error("existing header must not be rewritten")
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	cases := map[string]Options{
		"no spreadsheet": {CredentialsJSON: "{}"},
		"no credentials": {SpreadsheetID: "id"},
		"missing file":   {SpreadsheetID: "id", CredentialsFile: "/nonexistent/sa.json"},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := New(context.Background(), opts); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Buget", 2026, "2026 Buget"},
		{"", 2023, ""},
		{"Monthly Export", 2022, "2022 Monthly Export"},
		{"2025 Already Prefixed", 2024, "2025 Already Prefixed"},
	}

	for _, tt := range tests {
		got := yearPrefixedName(tt.baseName, tt.year)
		if got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q",
				tt.baseName, tt.year, got, tt.expected)
		}
	}
}
