package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	rejectedTotal     *prometheus.CounterVec
	changeEventsTotal *prometheus.CounterVec
	exportsTotal      *prometheus.CounterVec
	attentionItems    *prometheus.HistogramVec
	remindersTotal    *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
	mcpToolCallsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nbk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nbk",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	rejectedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "http",
			Name:      "rejected_total",
			Help:      "Requests rejected by traffic control, by reason.",
		},
		[]string{"service", "reason"},
	)
	changeEventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Record change events by kind, action and outcome.",
		},
		[]string{"service", "kind", "action", "status"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "export",
			Name:      "workbooks_total",
			Help:      "Spreadsheet exports by report and outcome.",
		},
		[]string{"service", "report", "status"},
	)
	attentionItems := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nbk",
			Subsystem: "attention",
			Name:      "items",
			Help:      "Distribution of attention items per computed feed.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service", "surface"},
	)
	remindersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "reminders",
			Name:      "served_total",
			Help:      "Reminder lookups by outcome.",
		},
		[]string{"service", "outcome"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "nbk",
			Subsystem: "resilience",
			Name:      "breaker_open",
			Help:      "1 while the circuit breaker for an operation is not closed.",
		},
		[]string{"service", "operation"},
	)
	mcpToolCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "MCP tool calls by tool and outcome.",
		},
		[]string{"service", "tool", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		rejectedTotal,
		changeEventsTotal,
		exportsTotal,
		attentionItems,
		remindersTotal,
		breakerState,
		mcpToolCallsTotal,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		rejectedTotal:     rejectedTotal,
		changeEventsTotal: changeEventsTotal,
		exportsTotal:      exportsTotal,
		attentionItems:    attentionItems,
		remindersTotal:    remindersTotal,
		breakerState:      breakerState,
		mcpToolCallsTotal: mcpToolCallsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath folds record ids out of /v1/<resource>/<id> so label
// cardinality stays bounded.
func normalizePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "v1" {
		return path
	}
	switch parts[1] {
	case "exports", "reminders":
		return path
	}
	return "/v1/" + parts[1] + "/{id}"
}

func (m *HTTPServerMetrics) RecordRejected(service, reason string) {
	m.rejectedTotal.WithLabelValues(service, reason).Inc()
}

func (m *HTTPServerMetrics) RecordChangeEvent(service, kind, action string, err error) {
	m.changeEventsTotal.WithLabelValues(service, kind, action, outcome(err)).Inc()
}

func (m *HTTPServerMetrics) RecordExport(service, report string, err error) {
	m.exportsTotal.WithLabelValues(service, report, outcome(err)).Inc()
}

func (m *HTTPServerMetrics) ObserveAttentionItems(service, surface string, items int) {
	m.attentionItems.WithLabelValues(service, surface).Observe(float64(items))
}

func (m *HTTPServerMetrics) RecordReminder(service, result string) {
	if result == "" {
		result = "unknown"
	}
	m.remindersTotal.WithLabelValues(service, result).Inc()
}

func (m *HTTPServerMetrics) RecordMCPToolCall(service, tool string, err error) {
	if tool == "" {
		tool = "unknown"
	}
	m.mcpToolCallsTotal.WithLabelValues(service, tool, outcome(err)).Inc()
}

// BreakerObserver returns a hook for resilience.Config.OnStateChange.
func (m *HTTPServerMetrics) BreakerObserver(service string) func(operation, from, to string) {
	return func(operation, _, to string) {
		value := 0.0
		if to != "closed" {
			value = 1
		}
		m.breakerState.WithLabelValues(service, operation).Set(value)
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
