package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nbkdev/control-center/internal/core/calendar"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/ports"
	"github.com/nbkdev/control-center/internal/core/reminder"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

type snapshotLoader interface {
	Today() time.Time
	LoadInput(ctx context.Context) (urgency.Input, error)
}

type ReminderUseCase struct {
	loader snapshotLoader
	stores ports.LedgerStores
}

func NewReminderUseCase(loader snapshotLoader, stores ports.LedgerStores) *ReminderUseCase {
	return &ReminderUseCase{
		loader: loader,
		stores: stores,
	}
}

func (uc *ReminderUseCase) Next(ctx context.Context, deviceID string, asOf time.Time) (*reminder.Reminder, error) {
	ledger, err := uc.ledger(deviceID, "next reminder")
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = uc.loader.Today()
	}
	in, err := uc.loader.LoadInput(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Next(ctx, reminder.Candidates(in.Projects, in.Subscriptions, asOf), asOf)
}

// MarkShown records key as shown on day; an empty day means today.
func (uc *ReminderUseCase) MarkShown(ctx context.Context, deviceID, key, day string) error {
	ledger, err := uc.ledger(deviceID, "mark reminder shown")
	if err != nil {
		return err
	}
	if strings.TrimSpace(day) == "" {
		day = calendar.Format(calendar.Day(uc.loader.Today()))
	}
	return ledger.MarkShown(ctx, strings.TrimSpace(key), day)
}

func (uc *ReminderUseCase) ledger(deviceID, operation string) (*reminder.Ledger, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, operation, errors.New("device id is required"))
	}
	return reminder.NewLedger(uc.stores.ForDevice(deviceID)), nil
}
