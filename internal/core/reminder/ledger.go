// Package reminder keeps expiry reminders from resurfacing more than once
// per calendar day and per stage on a single device.
package reminder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nbkdev/control-center/internal/core/calendar"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

type Stage int

// Stages are the day thresholds a reminder may fire at. Stage 0 covers
// "due today" and anything already past due.
var Stages = []Stage{7, 3, 1, 0}

type Kind string

const (
	KindAISubscription Kind = "ai"
	KindDomain         Kind = "domain"
	KindHosting        Kind = "hosting"
)

func Key(kind Kind, entityID string, stage Stage) string {
	return fmt.Sprintf("%s:%s:%d", kind, entityID, stage)
}

// StageFor picks the stage whose trigger matches daysLeft exactly.
func StageFor(daysLeft int) (Stage, bool) {
	if daysLeft <= 0 {
		return 0, true
	}
	for _, stage := range Stages {
		if stage > 0 && int(stage) == daysLeft {
			return stage, true
		}
	}
	return 0, false
}

// Store is the key → ISO day map behind a ledger. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, day string) error
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) HasShown(ctx context.Context, key, today string) (bool, error) {
	day, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read reminder ledger: %w", err)
	}
	return ok && day == today, nil
}

func (l *Ledger) MarkShown(ctx context.Context, key, today string) error {
	if key == "" {
		return domain.WrapError(domain.ErrInvalidInput, "mark reminder shown", fmt.Errorf("empty key"))
	}
	if _, ok := calendar.ParseDay(today, time.UTC); !ok {
		return domain.WrapError(domain.ErrInvalidInput, "mark reminder shown", fmt.Errorf("bad day %q", today))
	}
	if err := l.store.Set(ctx, key, today); err != nil {
		return fmt.Errorf("write reminder ledger: %w", err)
	}
	return nil
}

type Candidate struct {
	Kind     Kind
	EntityID string
	Subject  string
	DaysLeft int
}

type Reminder struct {
	Key      string `json:"key"`
	Kind     Kind   `json:"kind"`
	EntityID string `json:"entity_id"`
	Title    string `json:"title"`
	Stage    Stage  `json:"stage"`
	DaysLeft int    `json:"days_left"`
	Day      string `json:"day"`
}

// Next returns the most urgent reminder not yet shown today, or nil.
// Lower stages win; equal stages keep candidate order.
func (l *Ledger) Next(ctx context.Context, candidates []Candidate, today time.Time) (*Reminder, error) {
	todayISO := calendar.Format(calendar.Day(today))

	due := make([]Reminder, 0, len(candidates))
	for _, c := range candidates {
		stage, ok := StageFor(c.DaysLeft)
		if !ok {
			continue
		}
		due = append(due, Reminder{
			Key:      Key(c.Kind, c.EntityID, stage),
			Kind:     c.Kind,
			EntityID: c.EntityID,
			Title:    title(c),
			Stage:    stage,
			DaysLeft: c.DaysLeft,
			Day:      todayISO,
		})
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Stage < due[j].Stage
	})

	for _, r := range due {
		shown, err := l.HasShown(ctx, r.Key, todayISO)
		if err != nil {
			return nil, err
		}
		if !shown {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

// Candidates lists every renewal that has a parseable date. Cancelled
// subscriptions never remind.
func Candidates(projects []urgency.Project, subscriptions []urgency.Subscription, today time.Time) []Candidate {
	out := make([]Candidate, 0)
	for _, sub := range subscriptions {
		if sub.ManualStatus == domain.ManualStatusCancelled {
			continue
		}
		if daysLeft, ok := calendar.DaysUntil(sub.CancelByDate, today); ok {
			out = append(out, Candidate{Kind: KindAISubscription, EntityID: sub.ID, Subject: sub.ToolName, DaysLeft: daysLeft})
		}
	}
	for _, p := range projects {
		if daysLeft, ok := calendar.DaysUntil(p.DomainRenewalDate, today); ok {
			name := p.DomainName
			if name == "" {
				name = p.ProjectName
			}
			out = append(out, Candidate{Kind: KindDomain, EntityID: p.ID, Subject: "Domain " + name, DaysLeft: daysLeft})
		}
		if daysLeft, ok := calendar.DaysUntil(p.HostingRenewalDate, today); ok {
			out = append(out, Candidate{Kind: KindHosting, EntityID: p.ID, Subject: "Hosting for " + p.ProjectName, DaysLeft: daysLeft})
		}
	}
	return out
}

func title(c Candidate) string {
	switch {
	case c.DaysLeft < 0:
		return fmt.Sprintf("%s is overdue for renewal", c.Subject)
	case c.DaysLeft == 0:
		return fmt.Sprintf("%s is due today", c.Subject)
	case c.DaysLeft == 1:
		return fmt.Sprintf("%s is due tomorrow", c.Subject)
	default:
		return fmt.Sprintf("%s is due in %d days", c.Subject, c.DaysLeft)
	}
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day, ok := s.entries[key]
	return day, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = day
	return nil
}
