package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nbkdev/control-center/internal/config"
	"github.com/nbkdev/control-center/internal/core/ports"
	"github.com/nbkdev/control-center/internal/core/usecase"
	"github.com/nbkdev/control-center/internal/infrastructure/ledger/sqlite"
	"github.com/nbkdev/control-center/internal/infrastructure/repository/postgres"
)

// session holds the services one command needs.
type session struct {
	Attention     ports.AttentionService
	Reminders     ports.ReminderService
	Invoices      ports.InvoiceRepository
	Subscriptions ports.SubscriptionRepository
	Branding      ports.BrandingRepository

	DeviceID   string
	Location   *time.Location
	ExportPath string

	closeFn func()
}

func (s *session) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

type sessionOpener func(ctx context.Context, cfg config.Config) (*session, error)

// openSession connects to the shared database read-side and the reminder
// ledger kept on this machine.
func openSession(ctx context.Context, cfg config.Config) (*session, error) {
	urgencyCfg, err := cfg.UrgencyConfig()
	if err != nil {
		return nil, fmt.Errorf("load scoring profile: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	ledger, err := sqlite.Open(cfg.LedgerPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	invoices := postgres.NewInvoiceRepository(db)
	subscriptions := postgres.NewSubscriptionRepository(db)
	attentionUC := usecase.NewAttentionUseCase(
		invoices,
		postgres.NewProjectRepository(db),
		subscriptions,
		postgres.NewActionItemRepository(db),
		urgencyCfg,
		cfg.Location(),
	)

	return &session{
		Attention:     attentionUC,
		Reminders:     usecase.NewReminderUseCase(attentionUC, ledger),
		Invoices:      invoices,
		Subscriptions: subscriptions,
		Branding:      postgres.NewBrandingRepository(db),

		DeviceID:   deviceID(),
		Location:   cfg.Location(),
		ExportPath: cfg.ExportPath,

		closeFn: func() {
			_ = ledger.Close()
			_ = db.Close()
		},
	}, nil
}

func deviceID() string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return "local"
	}
	return host
}
