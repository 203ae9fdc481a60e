package ports

import (
	"context"
	"io"

	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/reminder"
)

// Repository is the CRUD contract shared by the back-office record stores.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, id string) error
}

type (
	ClientRepository       = Repository[domain.Client]
	ProjectRepository      = Repository[domain.Project]
	InvoiceRepository      = Repository[domain.Invoice]
	SubscriptionRepository = Repository[domain.AISubscription]
	ActionItemRepository   = Repository[domain.ActionItem]
	EmailAccountRepository = Repository[domain.EmailAccount]
	EffortLogRepository    = Repository[domain.EffortLog]
)

// BrandingRepository persists the business-branding singleton.
type BrandingRepository interface {
	Get(ctx context.Context) (*domain.Branding, error)
	Save(ctx context.Context, branding *domain.Branding) error
}

// LedgerStores hands out the reminder ledger scoped to one device.
type LedgerStores interface {
	ForDevice(deviceID string) reminder.Store
}

// EventPublisher announces record changes to interested consumers.
type EventPublisher interface {
	PublishEntityChanged(ctx context.Context, event domain.ChangeEvent) error
}

// EventSubscriber consumes record changes until ctx is done.
type EventSubscriber interface {
	SubscribeEntityChanged(ctx context.Context, handler func(context.Context, domain.ChangeEvent) error) error
}

// ObjectStorage stores exported files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
