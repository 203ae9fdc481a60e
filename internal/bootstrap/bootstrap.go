package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nbkdev/control-center/internal/config"
	"github.com/nbkdev/control-center/internal/core/ports"
	"github.com/nbkdev/control-center/internal/core/usecase"
	"github.com/nbkdev/control-center/internal/infrastructure/queue/nats"
	"github.com/nbkdev/control-center/internal/infrastructure/repository/postgres"
	"github.com/nbkdev/control-center/internal/infrastructure/resilience"
)

// Options tune how the shared dependencies are built.
type Options struct {
	// OnBreakerStateChange observes circuit breaker transitions on the bus.
	OnBreakerStateChange func(operation, from, to string)
}

type App struct {
	Config config.Config

	DB *sql.DB

	Clients       ports.ClientRepository
	Projects      ports.ProjectRepository
	Invoices      ports.InvoiceRepository
	Subscriptions ports.SubscriptionRepository
	ActionItems   ports.ActionItemRepository
	EmailAccounts ports.EmailAccountRepository
	EffortLogs    ports.EffortLogRepository
	Branding      ports.BrandingRepository
	Ledgers       ports.LedgerStores

	Publisher  ports.EventPublisher
	Subscriber ports.EventSubscriber

	Attention *usecase.AttentionUseCase
	Reminders *usecase.ReminderUseCase
	Notifier  *usecase.ChangeNotifier

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	urgencyCfg, err := cfg.UrgencyConfig()
	if err != nil {
		return nil, fmt.Errorf("load scoring profile: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	bus, closeBus, err := newEventBus(cfg, opts)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init event bus: %w", err)
	}

	invoices := postgres.NewInvoiceRepository(db)
	projects := postgres.NewProjectRepository(db)
	subscriptions := postgres.NewSubscriptionRepository(db)
	actionItems := postgres.NewActionItemRepository(db)

	attentionUC := usecase.NewAttentionUseCase(
		invoices,
		projects,
		subscriptions,
		actionItems,
		urgencyCfg,
		cfg.Location(),
	)
	ledgers := postgres.NewLedgerRepository(db)

	return &App{
		Config: cfg,
		DB:     db,

		Clients:       postgres.NewClientRepository(db),
		Projects:      projects,
		Invoices:      invoices,
		Subscriptions: subscriptions,
		ActionItems:   actionItems,
		EmailAccounts: postgres.NewEmailAccountRepository(db),
		EffortLogs:    postgres.NewEffortLogRepository(db),
		Branding:      postgres.NewBrandingRepository(db),
		Ledgers:       ledgers,

		Publisher:  bus,
		Subscriber: bus,

		Attention: attentionUC,
		Reminders: usecase.NewReminderUseCase(attentionUC, ledgers),
		Notifier:  usecase.NewChangeNotifier(bus),

		closeFn: func() {
			closeBus()
			_ = db.Close()
		},
	}, nil
}

type eventBus interface {
	ports.EventPublisher
	ports.EventSubscriber
}

// newEventBus connects to NATS when a URL is configured. Without one, change
// events are dropped and the worker relies on its refresh ticker.
func newEventBus(cfg config.Config, opts Options) (eventBus, func(), error) {
	if cfg.NATSURL == "" {
		slog.Warn("nats_disabled", "reason", "NATS_URL is empty; change events are not published")
		return nats.Noop{}, func() {}, nil
	}

	policy := resilience.DefaultConfig()
	policy.OnStateChange = opts.OnBreakerStateChange

	bus, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(policy),
	})
	if err != nil {
		return nil, nil, err
	}
	return bus, bus.Close, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
