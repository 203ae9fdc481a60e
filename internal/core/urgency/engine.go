package urgency

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/nbkdev/control-center/internal/core/calendar"
	"github.com/nbkdev/control-center/internal/core/domain"
)

type ItemType string

const (
	TypeOverdueInvoice ItemType = "overdue_invoice"
	TypePendingInvoice ItemType = "pending_invoice"
	TypeDomainRenewal  ItemType = "domain_renewal"
	TypeHostingRenewal ItemType = "hosting_renewal"
	TypeAISubscription ItemType = "ai_subscription"
	TypeActionItem     ItemType = "action_item"
)

const maxActionTitle = 50

type Invoice struct {
	ID            string
	InvoiceNumber string
	ClientName    string
	GrandTotal    decimal.Decimal
	BalanceDue    decimal.Decimal
	PaymentStatus domain.PaymentStatus
	DueDate       string
	InvoiceDate   string
}

type Project struct {
	ID                 string
	ClientName         string
	ProjectName        string
	DomainName         string
	DomainRenewalDate  string
	HostingRenewalDate string
	PendingAmount      decimal.NullDecimal
	PaymentStatus      domain.PaymentStatus
}

type Subscription struct {
	ID           string
	ToolName     string
	CancelByDate string
	ManualStatus string
	Cost         decimal.NullDecimal
}

type ActionContext struct {
	Type domain.ContextType
	ID   string
}

type ActionItem struct {
	ID        string
	Text      string
	DueDate   string
	Completed bool
	Context   ActionContext
}

// Input is the snapshot the engine ranks. The engine never mutates it.
type Input struct {
	Invoices      []Invoice
	Projects      []Project
	Subscriptions []Subscription
	ActionItems   []ActionItem
}

type Item struct {
	ID           string              `json:"id"`
	EntityID     string              `json:"entity_id"`
	Type         ItemType            `json:"type"`
	Title        string              `json:"title"`
	Context      string              `json:"context"`
	UrgencyScore int                 `json:"urgency_score"`
	DaysOverdue  *int                `json:"days_overdue,omitempty"`
	DaysLeft     *int                `json:"days_left,omitempty"`
	Amount       decimal.NullDecimal `json:"amount"`
	ActionLabel  string              `json:"action_label"`
	ActionLink   string              `json:"action_link"`
}

// ComputeAllItems scores every candidate in the snapshot and returns the
// non-zero ones ordered by descending score. Ties keep input order.
func ComputeAllItems(in Input, today time.Time, cfg Config) []Item {
	items := make([]Item, 0)

	for _, inv := range in.Invoices {
		if item, ok := invoiceItem(inv, today, cfg); ok {
			items = append(items, item)
		}
	}
	for _, p := range in.Projects {
		if item, ok := domainItem(p, today, cfg.DomainRenewal); ok {
			items = append(items, item)
		}
		if item, ok := hostingItem(p, today, cfg.HostingRenewal); ok {
			items = append(items, item)
		}
	}
	for _, sub := range in.Subscriptions {
		if item, ok := subscriptionItem(sub, today, cfg.AISubscription); ok {
			items = append(items, item)
		}
	}
	for _, a := range in.ActionItems {
		if item, ok := actionItem(a, today, cfg.ActionItem); ok {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UrgencyScore > items[j].UrgencyScore
	})
	return items
}

// TopItem returns the most urgent item, or nil for an empty feed.
func TopItem(items []Item) *Item {
	if len(items) == 0 {
		return nil
	}
	top := items[0]
	return &top
}

// IsAllClear reports whether every item scores below threshold.
func IsAllClear(items []Item, threshold int) bool {
	for _, item := range items {
		if item.UrgencyScore >= threshold {
			return false
		}
	}
	return true
}

func invoiceItem(inv Invoice, today time.Time, cfg Config) (Item, bool) {
	if inv.PaymentStatus == domain.PaymentPaid {
		return Item{}, false
	}
	daysUntilDue, ok := calendar.DaysUntil(inv.DueDate, today)
	if !ok {
		return Item{}, false
	}
	amount := decimal.NewNullDecimal(inv.BalanceDue)

	if daysUntilDue < 0 {
		daysOverdue := -daysUntilDue
		score := CalculateOverdueInvoiceScore(daysOverdue, cfg.OverdueInvoice)
		if score == 0 {
			return Item{}, false
		}
		return Item{
			ID:           itemID(TypeOverdueInvoice, inv.ID),
			EntityID:     inv.ID,
			Type:         TypeOverdueInvoice,
			Title:        fmt.Sprintf("Invoice %s is %s overdue", inv.InvoiceNumber, pluralDays(daysOverdue)),
			Context:      inv.ClientName,
			UrgencyScore: score,
			DaysOverdue:  &daysOverdue,
			Amount:       amount,
			ActionLabel:  "Record Payment",
			ActionLink:   "/invoices/" + inv.ID,
		}, true
	}

	score := CalculatePendingInvoiceScore(daysUntilDue, paymentWindow(inv, today), cfg.PendingInvoice)
	if score == 0 {
		return Item{}, false
	}
	return Item{
		ID:           itemID(TypePendingInvoice, inv.ID),
		EntityID:     inv.ID,
		Type:         TypePendingInvoice,
		Title:        fmt.Sprintf("Invoice %s due in %s", inv.InvoiceNumber, pluralDays(daysUntilDue)),
		Context:      inv.ClientName,
		UrgencyScore: score,
		DaysLeft:     &daysUntilDue,
		Amount:       amount,
		ActionLabel:  "View Invoice",
		ActionLink:   "/invoices/" + inv.ID,
	}, true
}

// paymentWindow is the number of days between issue and due date, or 0
// when it cannot be derived.
func paymentWindow(inv Invoice, today time.Time) int {
	issued, ok := calendar.ParseDay(inv.InvoiceDate, today.Location())
	if !ok {
		return 0
	}
	due, ok := calendar.ParseDay(inv.DueDate, today.Location())
	if !ok {
		return 0
	}
	if window := calendar.DaysBetween(issued, due); window > 0 {
		return window
	}
	return 0
}

func domainItem(p Project, today time.Time, cfg RenewalConfig) (Item, bool) {
	daysLeft, ok := calendar.DaysUntil(p.DomainRenewalDate, today)
	if !ok {
		return Item{}, false
	}
	score := CalculateRenewalScore(daysLeft, cfg)
	if score == 0 {
		return Item{}, false
	}
	name := p.DomainName
	if name == "" {
		name = p.ProjectName
	}
	return renewalItem(TypeDomainRenewal, p.ID, "Domain "+name, projectContext(p), daysLeft, score, decimal.NullDecimal{},
		"Renew Domain", "/projects/"+p.ID), true
}

func hostingItem(p Project, today time.Time, cfg RenewalConfig) (Item, bool) {
	daysLeft, ok := calendar.DaysUntil(p.HostingRenewalDate, today)
	if !ok {
		return Item{}, false
	}
	score := CalculateRenewalScore(daysLeft, cfg)
	if score == 0 {
		return Item{}, false
	}
	return renewalItem(TypeHostingRenewal, p.ID, "Hosting for "+p.ProjectName, projectContext(p), daysLeft, score, decimal.NullDecimal{},
		"Renew Hosting", "/projects/"+p.ID), true
}

func subscriptionItem(sub Subscription, today time.Time, cfg RenewalConfig) (Item, bool) {
	if sub.ManualStatus == domain.ManualStatusCancelled {
		return Item{}, false
	}
	daysLeft, ok := calendar.DaysUntil(sub.CancelByDate, today)
	if !ok {
		return Item{}, false
	}
	score := CalculateRenewalScore(daysLeft, cfg)
	if score == 0 {
		return Item{}, false
	}
	return renewalItem(TypeAISubscription, sub.ID, sub.ToolName, "AI subscription", daysLeft, score, sub.Cost,
		"Review Subscription", "/subscriptions/"+sub.ID), true
}

func renewalItem(
	typ ItemType,
	entityID, subject, context string,
	daysLeft, score int,
	amount decimal.NullDecimal,
	label, link string,
) Item {
	item := Item{
		ID:           itemID(typ, entityID),
		EntityID:     entityID,
		Type:         typ,
		Title:        renewalTitle(subject, daysLeft),
		Context:      context,
		UrgencyScore: score,
		Amount:       amount,
		ActionLabel:  label,
		ActionLink:   link,
	}
	if daysLeft < 0 {
		overdue := -daysLeft
		item.DaysOverdue = &overdue
	} else {
		left := daysLeft
		item.DaysLeft = &left
	}
	return item
}

func renewalTitle(subject string, daysLeft int) string {
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("%s expired %s ago", subject, pluralDays(-daysLeft))
	case daysLeft == 0:
		return subject + " expires today"
	default:
		return fmt.Sprintf("%s expires in %s", subject, pluralDays(daysLeft))
	}
}

func actionItem(a ActionItem, today time.Time, cfg ActionItemConfig) (Item, bool) {
	if a.Completed {
		return Item{}, false
	}
	daysUntilDue, ok := calendar.DaysUntil(a.DueDate, today)
	if !ok {
		return Item{}, false
	}
	score := CalculateActionItemScore(a.Completed, daysUntilDue, cfg)
	if score == 0 {
		return Item{}, false
	}

	item := Item{
		ID:           itemID(TypeActionItem, a.ID),
		EntityID:     a.ID,
		Type:         TypeActionItem,
		Title:        truncate(a.Text, maxActionTitle),
		UrgencyScore: score,
		ActionLabel:  "Open Task",
		ActionLink:   "/action-items",
	}
	switch a.Context.Type {
	case domain.ContextProject:
		item.Context = "Project task"
		item.ActionLink = "/projects/" + a.Context.ID
	case domain.ContextClient:
		item.Context = "Client task"
		item.ActionLink = "/clients/" + a.Context.ID
	default:
		item.Context = "Task"
	}
	if daysUntilDue < 0 {
		overdue := -daysUntilDue
		item.DaysOverdue = &overdue
	} else {
		left := daysUntilDue
		item.DaysLeft = &left
	}
	return item, true
}

func projectContext(p Project) string {
	switch {
	case p.ClientName == "":
		return p.ProjectName
	case p.ProjectName == "":
		return p.ClientName
	default:
		return p.ClientName + " · " + p.ProjectName
	}
}

func itemID(typ ItemType, entityID string) string {
	return string(typ) + ":" + entityID
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
