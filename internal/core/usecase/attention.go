package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/ports"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

type AttentionUseCase struct {
	invoices      ports.InvoiceRepository
	projects      ports.ProjectRepository
	subscriptions ports.SubscriptionRepository
	actionItems   ports.ActionItemRepository

	cfg   urgency.Config
	loc   *time.Location
	clock func() time.Time
}

func NewAttentionUseCase(
	invoices ports.InvoiceRepository,
	projects ports.ProjectRepository,
	subscriptions ports.SubscriptionRepository,
	actionItems ports.ActionItemRepository,
	cfg urgency.Config,
	loc *time.Location,
) *AttentionUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &AttentionUseCase{
		invoices:      invoices,
		projects:      projects,
		subscriptions: subscriptions,
		actionItems:   actionItems,
		cfg:           cfg.Normalize(),
		loc:           loc,
		clock:         time.Now,
	}
}

// WithClock replaces the wall clock, mainly for tests.
func (uc *AttentionUseCase) WithClock(clock func() time.Time) *AttentionUseCase {
	uc.clock = clock
	return uc
}

func (uc *AttentionUseCase) Config() urgency.Config {
	return uc.cfg
}

func (uc *AttentionUseCase) Today() time.Time {
	return uc.clock().In(uc.loc)
}

// LoadInput reads the four collections concurrently and converts them into
// the engine's input shapes.
func (uc *AttentionUseCase) LoadInput(ctx context.Context) (urgency.Input, error) {
	var in urgency.Input
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := uc.invoices.List(gctx)
		if err != nil {
			return fmt.Errorf("list invoices: %w", err)
		}
		in.Invoices = InvoicesForUrgency(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := uc.projects.List(gctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		in.Projects = ProjectsForUrgency(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := uc.subscriptions.List(gctx)
		if err != nil {
			return fmt.Errorf("list subscriptions: %w", err)
		}
		in.Subscriptions = SubscriptionsForUrgency(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := uc.actionItems.List(gctx)
		if err != nil {
			return fmt.Errorf("list action items: %w", err)
		}
		in.ActionItems = ActionItemsForUrgency(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return urgency.Input{}, err
	}
	return in, nil
}

// Snapshot builds the attention view as of asOf; the zero time means today.
func (uc *AttentionUseCase) Snapshot(ctx context.Context, asOf time.Time) (*attention.Snapshot, error) {
	if asOf.IsZero() {
		asOf = uc.Today()
	}
	in, err := uc.LoadInput(ctx)
	if err != nil {
		return nil, err
	}
	snap := attention.Build(in, asOf, uc.cfg)
	return &snap, nil
}
