package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/ports"
)

// RefreshObserver receives the outcome of every snapshot refresh.
type RefreshObserver interface {
	FinishRefresh(service, trigger string, duration time.Duration, err error)
	RecordEvent(service, kind string, lag time.Duration)
	SetSnapshot(snap attention.Snapshot)
}

// SnapshotRefresher keeps the latest attention snapshot current, recomputing
// it on a timer and whenever a record change arrives.
type SnapshotRefresher struct {
	service   string
	attention ports.AttentionService
	observer  RefreshObserver
	clock     func() time.Time

	mu     sync.Mutex
	latest *attention.Snapshot
}

func NewSnapshotRefresher(service string, attentionSvc ports.AttentionService, observer RefreshObserver) *SnapshotRefresher {
	return &SnapshotRefresher{
		service:   service,
		attention: attentionSvc,
		observer:  observer,
		clock:     time.Now,
	}
}

// Refresh recomputes the snapshot for today. Failures keep the previous
// snapshot in place.
func (r *SnapshotRefresher) Refresh(ctx context.Context, trigger string) (*attention.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.clock()
	snap, err := r.attention.Snapshot(ctx, time.Time{})
	if r.observer != nil {
		r.observer.FinishRefresh(r.service, trigger, r.clock().Sub(start), err)
	}
	if err != nil {
		slog.Error("snapshot_refresh_failed", "trigger", trigger, "error", err)
		return nil, err
	}

	r.latest = snap
	if r.observer != nil {
		r.observer.SetSnapshot(*snap)
	}
	slog.Info("snapshot_refreshed",
		"trigger", trigger,
		"as_of", snap.AsOf,
		"items", len(snap.Items),
		"all_clear", snap.AllClear,
	)
	return snap, nil
}

// HandleEvent is the change-event subscriber callback.
func (r *SnapshotRefresher) HandleEvent(ctx context.Context, event domain.ChangeEvent) error {
	if r.observer != nil {
		lag := time.Duration(-1)
		if !event.At.IsZero() {
			lag = r.clock().Sub(event.At)
		}
		r.observer.RecordEvent(r.service, event.Kind, lag)
	}
	_, err := r.Refresh(ctx, "event")
	return err
}

// Latest returns the most recent successful snapshot, or nil.
func (r *SnapshotRefresher) Latest() *attention.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Run refreshes immediately and then every interval until ctx is done.
// Individual refresh failures are logged and do not stop the loop.
func (r *SnapshotRefresher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	_, _ = r.Refresh(ctx, "startup")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = r.Refresh(ctx, "ticker")
		}
	}
}

// Subscribe consumes change events until ctx is done.
func (r *SnapshotRefresher) Subscribe(ctx context.Context, subscriber ports.EventSubscriber) error {
	return subscriber.SubscribeEntityChanged(ctx, r.HandleEvent)
}
