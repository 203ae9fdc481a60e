package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/reminder"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

type listFake[T any] struct {
	rows []T
	err  error
}

func (f listFake[T]) List(context.Context) ([]T, error) { return f.rows, f.err }
func (f listFake[T]) GetByID(context.Context, string) (*T, error) {
	return nil, errors.New("not implemented")
}
func (f listFake[T]) Create(context.Context, *T) error { return errors.New("not implemented") }
func (f listFake[T]) Update(context.Context, *T) error { return errors.New("not implemented") }
func (f listFake[T]) Delete(context.Context, string) error {
	return errors.New("not implemented")
}

var fixedNow = time.Date(2024, time.January, 15, 22, 30, 0, 0, time.UTC)

func newAttentionFixture(invoiceErr error) *AttentionUseCase {
	invoices := listFake[domain.Invoice]{
		rows: []domain.Invoice{{
			ID:            "inv-1",
			InvoiceNumber: "INV-001",
			ClientName:    "Acme",
			InvoiceDate:   "2023-12-06",
			DueDate:       "2024-01-05",
			GrandTotal:    decimal.NewFromInt(5000),
			BalanceDue:    decimal.NewFromInt(5000),
			PaymentStatus: domain.PaymentOverdue,
		}},
		err: invoiceErr,
	}
	projects := listFake[domain.Project]{rows: []domain.Project{{
		ID:                "p-1",
		ProjectName:       "Shop",
		DomainName:        "shop.example",
		DomainRenewalDate: "2024-01-16",
	}}}
	subs := listFake[domain.AISubscription]{rows: []domain.AISubscription{{
		ID:           "sub-1",
		ToolName:     "Copilot",
		CancelByDate: "2024-01-18",
		Cost:         decimal.NewNullDecimal(decimal.NewFromInt(20)),
	}}}
	actions := listFake[domain.ActionItem]{rows: []domain.ActionItem{{
		ID:          "a-1",
		Text:        "Send proposal",
		DueDate:     "2024-01-15",
		ContextType: domain.ContextClient,
		ContextID:   "c-1",
	}}}

	return NewAttentionUseCase(invoices, projects, subs, actions, urgency.Config{}, time.UTC).
		WithClock(func() time.Time { return fixedNow })
}

func TestAttentionSnapshotRanksAcrossCollections(t *testing.T) {
	uc := newAttentionFixture(nil)

	snap, err := uc.Snapshot(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.AsOf != "2024-01-15" {
		t.Fatalf("expected as_of from clock, got %q", snap.AsOf)
	}
	if len(snap.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(snap.Items))
	}
	if snap.Top == nil || snap.Top.Type != urgency.TypeOverdueInvoice {
		t.Fatalf("expected overdue invoice on top, got %+v", snap.Top)
	}
	for i := 1; i < len(snap.Items); i++ {
		if snap.Items[i-1].UrgencyScore < snap.Items[i].UrgencyScore {
			t.Fatalf("items not sorted by score: %+v", snap.Items)
		}
	}
	if !snap.Vitals.TotalPendingPayments.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected pending payments %s", snap.Vitals.TotalPendingPayments)
	}
}

func TestAttentionSnapshotIsRepeatable(t *testing.T) {
	uc := newAttentionFixture(nil)
	asOf := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	first, err := uc.Snapshot(context.Background(), asOf)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	second, _ := uc.Snapshot(context.Background(), asOf)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical snapshots")
	}
}

func TestAttentionSnapshotPropagatesLoadErrors(t *testing.T) {
	uc := newAttentionFixture(errors.New("db down"))
	if _, err := uc.Snapshot(context.Background(), time.Time{}); err == nil {
		t.Fatalf("expected load error")
	}
}

type ledgerStoresFake struct {
	stores map[string]*reminder.MemoryStore
}

func (f *ledgerStoresFake) ForDevice(deviceID string) reminder.Store {
	if f.stores == nil {
		f.stores = map[string]*reminder.MemoryStore{}
	}
	if _, ok := f.stores[deviceID]; !ok {
		f.stores[deviceID] = reminder.NewMemoryStore()
	}
	return f.stores[deviceID]
}

func TestReminderNextIsScopedPerDevice(t *testing.T) {
	ctx := context.Background()
	uc := NewReminderUseCase(newAttentionFixture(nil), &ledgerStoresFake{})

	first, err := uc.Next(ctx, "laptop", time.Time{})
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first == nil || first.Key != "domain:p-1:1" {
		t.Fatalf("expected domain reminder first, got %+v", first)
	}
	if err := uc.MarkShown(ctx, "laptop", first.Key, ""); err != nil {
		t.Fatalf("MarkShown() error = %v", err)
	}

	next, _ := uc.Next(ctx, "laptop", time.Time{})
	if next == nil || next.Key != "ai:sub-1:3" {
		t.Fatalf("expected subscription reminder next, got %+v", next)
	}

	other, _ := uc.Next(ctx, "phone", time.Time{})
	if other == nil || other.Key != "domain:p-1:1" {
		t.Fatalf("expected other device to see domain reminder, got %+v", other)
	}
}

func TestReminderRequiresDeviceID(t *testing.T) {
	uc := NewReminderUseCase(newAttentionFixture(nil), &ledgerStoresFake{})
	_, err := uc.Next(context.Background(), " ", time.Time{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

type publisherFake struct {
	events []domain.ChangeEvent
	err    error
}

func (f *publisherFake) PublishEntityChanged(_ context.Context, event domain.ChangeEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func TestChangeNotifierSwallowsPublishErrors(t *testing.T) {
	pub := &publisherFake{err: errors.New("nats down")}
	notifier := NewChangeNotifier(pub)
	notifier.Notify(context.Background(), "invoice", "inv-1", domain.ChangeUpdated)

	if len(pub.events) != 1 {
		t.Fatalf("expected one publish attempt, got %d", len(pub.events))
	}
	if pub.events[0].Kind != "invoice" || pub.events[0].Action != domain.ChangeUpdated {
		t.Fatalf("unexpected event %+v", pub.events[0])
	}
}
