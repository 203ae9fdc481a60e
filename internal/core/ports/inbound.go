package ports

import (
	"context"
	"time"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/reminder"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

// AttentionService is the inbound contract for the ranked attention feed.
type AttentionService interface {
	Today() time.Time
	LoadInput(ctx context.Context) (urgency.Input, error)
	Snapshot(ctx context.Context, asOf time.Time) (*attention.Snapshot, error)
}

// ReminderService surfaces one de-duplicated expiry reminder per device.
type ReminderService interface {
	Next(ctx context.Context, deviceID string, asOf time.Time) (*reminder.Reminder, error)
	MarkShown(ctx context.Context, deviceID, key, day string) error
}

// ChangeNotifier records that a back-office record was written.
type ChangeNotifier interface {
	Notify(ctx context.Context, kind, id string, action domain.ChangeAction)
}
