package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nbkdev/control-center/internal/core/attention"
)

// WorkerMetrics exposes the latest attention snapshot as gauges so alerting
// can watch the back office without polling the API.
type WorkerMetrics struct {
	registry *prometheus.Registry

	refreshTotal    *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	eventsTotal     *prometheus.CounterVec
	eventLag        *prometheus.HistogramVec

	items           prometheus.Gauge
	topScore        prometheus.Gauge
	allClear        prometheus.Gauge
	pendingPayments prometheus.Gauge
	revenueMonth    prometheus.Gauge
	expenseHorizon  prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	refreshTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "worker",
			Name:      "refresh_total",
			Help:      "Snapshot refreshes by trigger and status.",
		},
		[]string{"service", "trigger", "status"},
	)
	refreshDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nbk",
			Subsystem: "worker",
			Name:      "refresh_duration_seconds",
			Help:      "Snapshot refresh duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	eventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbk",
			Subsystem: "worker",
			Name:      "change_events_total",
			Help:      "Record change events received by kind.",
		},
		[]string{"service", "kind"},
	)
	eventLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nbk",
			Subsystem: "worker",
			Name:      "event_lag_seconds",
			Help:      "Delay between a record change and the worker seeing it.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service"},
	)

	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "nbk",
			Subsystem:   "attention",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	items := gauge("items", "Number of items in the current attention feed.")
	topScore := gauge("top_score", "Urgency score of the top attention item, 0 when empty.")
	allClear := gauge("all_clear", "1 when nothing scores at or above the all-clear threshold.")
	pendingPayments := gauge("pending_payments", "Outstanding balance across unpaid invoices.")
	revenueMonth := gauge("revenue_this_month", "Paid invoice totals issued this month.")
	expenseHorizon := gauge("expense_horizon", "Subscription spend due in the next 30 days.")

	registry.MustRegister(
		refreshTotal, refreshDuration, eventsTotal, eventLag,
		items, topScore, allClear, pendingPayments, revenueMonth, expenseHorizon,
	)

	return &WorkerMetrics{
		registry:        registry,
		refreshTotal:    refreshTotal,
		refreshDuration: refreshDuration,
		eventsTotal:     eventsTotal,
		eventLag:        eventLag,
		items:           items,
		topScore:        topScore,
		allClear:        allClear,
		pendingPayments: pendingPayments,
		revenueMonth:    revenueMonth,
		expenseHorizon:  expenseHorizon,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) FinishRefresh(service, trigger string, duration time.Duration, err error) {
	status := outcome(err)
	m.refreshTotal.WithLabelValues(service, trigger, status).Inc()
	m.refreshDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordEvent(service, kind string, lag time.Duration) {
	m.eventsTotal.WithLabelValues(service, kind).Inc()
	if lag >= 0 {
		m.eventLag.WithLabelValues(service).Observe(lag.Seconds())
	}
}

func (m *WorkerMetrics) SetSnapshot(snap attention.Snapshot) {
	m.items.Set(float64(len(snap.Items)))
	top := 0.0
	if snap.Top != nil {
		top = float64(snap.Top.UrgencyScore)
	}
	m.topScore.Set(top)
	if snap.AllClear {
		m.allClear.Set(1)
	} else {
		m.allClear.Set(0)
	}
	m.pendingPayments.Set(snap.Vitals.TotalPendingPayments.InexactFloat64())
	m.revenueMonth.Set(snap.Vitals.RevenueThisMonth.InexactFloat64())
	m.expenseHorizon.Set(snap.Vitals.ThirtyDayExpenseHorizon.InexactFloat64())
}
