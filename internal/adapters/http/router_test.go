package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nbkdev/control-center/internal/config"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/reminder"
	"github.com/nbkdev/control-center/internal/core/urgency"
	"github.com/nbkdev/control-center/internal/core/usecase"
)

type memRepo[T any] struct {
	mu    sync.Mutex
	items map[string]T
	idOf  func(*T) *string
	err   error
}

func newMemRepo[T any](idOf func(*T) *string) *memRepo[T] {
	return &memRepo[T]{items: make(map[string]T), idOf: idOf}
}

func (m *memRepo[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *memRepo[T]) GetByID(_ context.Context, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get", fmt.Errorf("id=%s", id))
	}
	return &item, nil
}

func (m *memRepo[T]) Create(_ context.Context, record *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[*m.idOf(record)] = *record
	return nil
}

func (m *memRepo[T]) Update(_ context.Context, record *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	id := *m.idOf(record)
	if _, ok := m.items[id]; !ok {
		return domain.WrapError(domain.ErrNotFound, "update", fmt.Errorf("id=%s", id))
	}
	m.items[id] = *record
	return nil
}

func (m *memRepo[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.WrapError(domain.ErrNotFound, "delete", fmt.Errorf("id=%s", id))
	}
	delete(m.items, id)
	return nil
}

type brandingFake struct {
	branding *domain.Branding
}

func (f *brandingFake) Get(context.Context) (*domain.Branding, error) {
	if f.branding == nil {
		return nil, domain.WrapError(domain.ErrNotFound, "get branding", errors.New("not configured"))
	}
	out := *f.branding
	return &out, nil
}

func (f *brandingFake) Save(_ context.Context, b *domain.Branding) error {
	saved := *b
	f.branding = &saved
	return nil
}

type memLedgers struct {
	mu      sync.Mutex
	devices map[string]*reminder.MemoryStore
}

func (l *memLedgers) ForDevice(deviceID string) reminder.Store {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.devices == nil {
		l.devices = make(map[string]*reminder.MemoryStore)
	}
	store, ok := l.devices[deviceID]
	if !ok {
		store = reminder.NewMemoryStore()
		l.devices[deviceID] = store
	}
	return store
}

type notifierFake struct {
	mu     sync.Mutex
	events []string
}

func (n *notifierFake) Notify(_ context.Context, kind, id string, action domain.ChangeAction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, kind+":"+id+":"+string(action))
}

type testEnv struct {
	clients       *memRepo[domain.Client]
	projects      *memRepo[domain.Project]
	invoices      *memRepo[domain.Invoice]
	subscriptions *memRepo[domain.AISubscription]
	actionItems   *memRepo[domain.ActionItem]
	branding      *brandingFake
	notifier      *notifierFake
	handler       http.Handler
}

var fixedNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func newTestEnv(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()

	env := &testEnv{
		clients:       newMemRepo(func(c *domain.Client) *string { return &c.ID }),
		projects:      newMemRepo(func(p *domain.Project) *string { return &p.ID }),
		invoices:      newMemRepo(func(inv *domain.Invoice) *string { return &inv.ID }),
		subscriptions: newMemRepo(func(s *domain.AISubscription) *string { return &s.ID }),
		actionItems:   newMemRepo(func(a *domain.ActionItem) *string { return &a.ID }),
		branding:      &brandingFake{},
		notifier:      &notifierFake{},
	}

	attentionUC := usecase.NewAttentionUseCase(
		env.invoices,
		env.projects,
		env.subscriptions,
		env.actionItems,
		urgency.DefaultConfig(),
		time.UTC,
	).WithClock(func() time.Time { return fixedNow })

	router, err := NewRouter(cfg, Dependencies{
		Clients:       env.clients,
		Projects:      env.projects,
		Invoices:      env.invoices,
		Subscriptions: env.subscriptions,
		ActionItems:   env.actionItems,
		EmailAccounts: newMemRepo(func(e *domain.EmailAccount) *string { return &e.ID }),
		EffortLogs:    newMemRepo(func(e *domain.EffortLog) *string { return &e.ID }),
		Branding:      env.branding,
		Attention:     attentionUC,
		Reminders:     usecase.NewReminderUseCase(attentionUC, &memLedgers{}),
		Notifier:      env.notifier,
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	env.handler = router.Handler()
	return env
}

// newTestHandler builds a router over empty in-memory stores.
func newTestHandler(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	return newTestEnv(t, cfg).handler
}

func (env *testEnv) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	res := httptest.NewRecorder()
	env.handler.ServeHTTP(res, req)
	return res
}
