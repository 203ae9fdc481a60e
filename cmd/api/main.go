package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/nbkdev/control-center/internal/adapters/http"
	mcpadapter "github.com/nbkdev/control-center/internal/adapters/mcp"
	"github.com/nbkdev/control-center/internal/bootstrap"
	"github.com/nbkdev/control-center/internal/config"
	"github.com/nbkdev/control-center/internal/observability/logging"
	"github.com/nbkdev/control-center/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		OnBreakerStateChange: httpMetrics.BreakerObserver("api"),
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	tools := mcpadapter.NewTools(app.Attention, app.Subscriptions, httpMetrics)
	router, err := httpadapter.NewRouter(cfg, httpadapter.Dependencies{
		Clients:       app.Clients,
		Projects:      app.Projects,
		Invoices:      app.Invoices,
		Subscriptions: app.Subscriptions,
		ActionItems:   app.ActionItems,
		EmailAccounts: app.EmailAccounts,
		EffortLogs:    app.EffortLogs,
		Branding:      app.Branding,
		Attention:     app.Attention,
		Reminders:     app.Reminders,
		Notifier:      app.Notifier,
		Metrics:       httpMetrics,
		MCP:           tools.Handler(),
	})
	if err != nil {
		slog.Error("router_init_failed", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
