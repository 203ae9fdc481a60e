package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/urgency"
	"github.com/nbkdev/control-center/internal/core/vitals"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/v1/invoices":              "/v1/invoices",
		"/v1/invoices/inv-1":        "/v1/invoices/{id}",
		"/v1/exports/invoices.xlsx": "/v1/exports/invoices.xlsx",
		"/v1/reminders/next":        "/v1/reminders/next",
		"/healthz":                  "/healthz",
		"/mcp":                      "/mcp",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTTPMiddlewareCountsByNormalizedPath(t *testing.T) {
	m := NewHTTPServerMetrics("nbk-api")
	h := m.Middleware("nbk-api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/clients/c-1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/clients/c-2", nil))

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("nbk-api", http.MethodGet, "/v1/clients/{id}", "404"))
	if got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
}

func TestBreakerObserverFlagsOpenState(t *testing.T) {
	m := NewHTTPServerMetrics("nbk-api")
	observe := m.BreakerObserver("nbk-api")

	observe("nats.publish", "closed", "open")
	if v := testutil.ToFloat64(m.breakerState.WithLabelValues("nbk-api", "nats.publish")); v != 1 {
		t.Fatalf("expected open breaker gauge 1, got %v", v)
	}
	observe("nats.publish", "half-open", "closed")
	if v := testutil.ToFloat64(m.breakerState.WithLabelValues("nbk-api", "nats.publish")); v != 0 {
		t.Fatalf("expected closed breaker gauge 0, got %v", v)
	}
}

func TestRecordChangeEventSplitsOutcome(t *testing.T) {
	m := NewHTTPServerMetrics("nbk-api")
	m.RecordChangeEvent("nbk-api", "invoice", "created", nil)
	m.RecordChangeEvent("nbk-api", "invoice", "created", errors.New("down"))

	if v := testutil.ToFloat64(m.changeEventsTotal.WithLabelValues("nbk-api", "invoice", "created", "error")); v != 1 {
		t.Fatalf("expected one failed event, got %v", v)
	}
}

func TestWorkerSetSnapshot(t *testing.T) {
	m := NewWorkerMetrics("nbk-worker")
	top := urgency.Item{UrgencyScore: 6192}
	m.SetSnapshot(attention.Snapshot{
		Items: []urgency.Item{top, {UrgencyScore: 50}},
		Top:   &top,
		Vitals: vitals.Vitals{
			TotalPendingPayments:    decimal.RequireFromString("5000.25"),
			ThirtyDayExpenseHorizon: decimal.NewFromInt(20),
		},
	})

	if v := testutil.ToFloat64(m.items); v != 2 {
		t.Fatalf("expected 2 items, got %v", v)
	}
	if v := testutil.ToFloat64(m.topScore); v != 6192 {
		t.Fatalf("expected top score 6192, got %v", v)
	}
	if v := testutil.ToFloat64(m.allClear); v != 0 {
		t.Fatalf("expected all_clear 0, got %v", v)
	}
	if v := testutil.ToFloat64(m.pendingPayments); v != 5000.25 {
		t.Fatalf("expected pending 5000.25, got %v", v)
	}

	m.SetSnapshot(attention.Snapshot{AllClear: true})
	if v := testutil.ToFloat64(m.topScore); v != 0 {
		t.Fatalf("expected top score reset, got %v", v)
	}
	if v := testutil.ToFloat64(m.allClear); v != 1 {
		t.Fatalf("expected all_clear 1, got %v", v)
	}
}
