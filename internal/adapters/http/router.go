package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nbkdev/control-center/internal/config"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/ports"
	"github.com/nbkdev/control-center/internal/observability/metrics"
)

const (
	serviceName    = "api"
	deviceIDHeader = "X-Device-Id"
)

// Dependencies are the stores and services the API serves from.
type Dependencies struct {
	Clients       ports.ClientRepository
	Projects      ports.ProjectRepository
	Invoices      ports.InvoiceRepository
	Subscriptions ports.SubscriptionRepository
	ActionItems   ports.ActionItemRepository
	EmailAccounts ports.EmailAccountRepository
	EffortLogs    ports.EffortLogRepository
	Branding      ports.BrandingRepository

	Attention ports.AttentionService
	Reminders ports.ReminderService
	Notifier  ports.ChangeNotifier

	Metrics *metrics.HTTPServerMetrics
	// MCP is mounted at /mcp when set.
	MCP http.Handler
}

type Router struct {
	cfg      config.Config
	deps     Dependencies
	contract *contract
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(cfg config.Config, deps Dependencies) (*Router, error) {
	c, err := loadContract(context.Background())
	if err != nil {
		return nil, err
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.NewHTTPServerMetrics(serviceName)
	}
	return &Router{
		cfg:      cfg,
		deps:     deps,
		contract: c,
		metrics:  m,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	api := chi.NewRouter()
	api.Route("/v1", func(r chi.Router) {
		rt.mountResources(r)
		r.Get("/branding", rt.getBranding)
		r.Put("/branding", rt.putBranding)
		r.Get("/attention", rt.getAttention)
		r.Get("/vitals", rt.getVitals)
		r.Get("/reminders/next", rt.nextReminder)
		r.Post("/reminders/shown", rt.markReminderShown)
		r.Get("/exports/invoices.xlsx", rt.exportInvoices)
		r.Get("/exports/attention.xlsx", rt.exportAttention)
	})
	if rt.deps.MCP != nil {
		api.Handle("/mcp", rt.deps.MCP)
	}

	onReject := func(reason string) { rt.metrics.RecordRejected(serviceName, reason) }
	guarded := rateLimitMiddleware(
		backpressureMiddleware(
			api,
			rt.cfg.APIMaxInFlight,
			time.Duration(rt.cfg.APIBackpressureWaitMS)*time.Millisecond,
			onReject,
		),
		rt.cfg.APIRateLimitRPS,
		rt.cfg.APIRateLimitBurst,
		onReject,
	)

	root := chi.NewRouter()
	root.Use(middleware.RealIP)
	root.Use(requestIDMiddleware)
	root.Use(accessLogMiddleware)
	root.Use(middleware.Recoverer)
	root.Get("/healthz", rt.healthz)
	root.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	root.Get("/openapi.yaml", rt.openAPIDocument)
	root.Mount("/", guarded)

	return rt.metrics.Middleware(serviceName, root)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) today() time.Time {
	if rt.deps.Attention == nil {
		return time.Now().In(rt.cfg.Location())
	}
	return rt.deps.Attention.Today()
}

func (rt *Router) notify(r *http.Request, kind, id string, action domain.ChangeAction) {
	if rt.deps.Notifier == nil {
		return
	}
	rt.deps.Notifier.Notify(r.Context(), kind, id, action)
}
