package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/ports"
)

// ChangeNotifier publishes record changes on a best-effort basis: a write
// that reached the database is never failed because the event bus is down.
type ChangeNotifier struct {
	publisher ports.EventPublisher
	clock     func() time.Time
}

func NewChangeNotifier(publisher ports.EventPublisher) *ChangeNotifier {
	return &ChangeNotifier{publisher: publisher, clock: time.Now}
}

func (n *ChangeNotifier) Notify(ctx context.Context, kind, id string, action domain.ChangeAction) {
	if n == nil || n.publisher == nil {
		return
	}
	event := domain.ChangeEvent{
		Kind:   kind,
		ID:     id,
		Action: action,
		At:     n.clock().UTC(),
	}
	if err := n.publisher.PublishEntityChanged(ctx, event); err != nil {
		slog.Warn("change_event_publish_failed",
			"kind", kind,
			"id", id,
			"action", string(action),
			"error", err,
		)
	}
}
