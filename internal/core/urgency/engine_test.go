package urgency

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nbkdev/control-center/internal/core/domain"
)

var today = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func day(offset int) string {
	return today.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestCalculateOverdueInvoiceScore(t *testing.T) {
	cfg := DefaultConfig().OverdueInvoice
	if got := CalculateOverdueInvoiceScore(0, cfg); got != 0 {
		t.Fatalf("expected 0 for not overdue, got %d", got)
	}
	if got := CalculateOverdueInvoiceScore(10, cfg); got != 6192 {
		t.Fatalf("expected 6192 for 10 days overdue, got %d", got)
	}
	if got := CalculateOverdueInvoiceScore(100000, cfg); got != maxScore {
		t.Fatalf("expected clamp to %d, got %d", maxScore, got)
	}
}

func TestCalculatePendingInvoiceScoreInterpolates(t *testing.T) {
	cfg := DefaultConfig().PendingInvoice
	if got := CalculatePendingInvoiceScore(30, 30, cfg); got != 50 {
		t.Fatalf("expected 10%% of base at window start, got %d", got)
	}
	if got := CalculatePendingInvoiceScore(15, 30, cfg); got != 275 {
		t.Fatalf("expected midpoint score 275, got %d", got)
	}
	if got := CalculatePendingInvoiceScore(45, 30, cfg); got != 50 {
		t.Fatalf("expected progress clamped at 0, got %d", got)
	}
	if got := CalculatePendingInvoiceScore(0, 30, cfg); got != 0 {
		t.Fatalf("expected 0 when due today, got %d", got)
	}
	if got := CalculatePendingInvoiceScore(15, 0, cfg); got != 275 {
		t.Fatalf("expected default 30-day window, got %d", got)
	}
}

func TestCalculateRenewalScoreIsMonotonicInsideWindow(t *testing.T) {
	domainCfg := DefaultConfig().DomainRenewal
	for daysLeft := -5; daysLeft < domainCfg.WindowDays; daysLeft++ {
		closer := CalculateRenewalScore(daysLeft, domainCfg)
		further := CalculateRenewalScore(daysLeft+1, domainCfg)
		if closer <= further {
			t.Fatalf("expected score(%d)=%d > score(%d)=%d", daysLeft, closer, daysLeft+1, further)
		}
	}
	if CalculateRenewalScore(5, domainCfg) <= CalculateRenewalScore(10, domainCfg) {
		t.Fatalf("expected 5 days left to outrank 10 days left")
	}
	if got := CalculateRenewalScore(31, domainCfg); got != 0 {
		t.Fatalf("expected 0 outside window, got %d", got)
	}
}

func TestCalculateRenewalScorePastDueCompounds(t *testing.T) {
	cfg := DefaultConfig().AISubscription
	if got := CalculateRenewalScore(3, cfg); got != 311 {
		t.Fatalf("expected 311 for 3 days left, got %d", got)
	}
	// 150 * 1.2^(2+7)
	if got := CalculateRenewalScore(-2, cfg); got != 774 {
		t.Fatalf("expected 774 for 2 days past due, got %d", got)
	}
}

func TestCalculateActionItemScoreIsBinary(t *testing.T) {
	cfg := DefaultConfig().ActionItem
	for _, days := range []int{1, 0, -1, -30} {
		if got := CalculateActionItemScore(false, days, cfg); got != 250 {
			t.Fatalf("expected 250 for %d days, got %d", days, got)
		}
	}
	if got := CalculateActionItemScore(false, 2, cfg); got != 0 {
		t.Fatalf("expected 0 for 2 days out, got %d", got)
	}
	if got := CalculateActionItemScore(true, 0, cfg); got != 0 {
		t.Fatalf("expected 0 for completed item, got %d", got)
	}
}

func TestComputeAllItemsSkipsPaidInvoices(t *testing.T) {
	in := Input{Invoices: []Invoice{
		{ID: "i-1", InvoiceNumber: "INV-1", PaymentStatus: domain.PaymentPaid, DueDate: day(-10), InvoiceDate: day(-40)},
		{ID: "i-2", InvoiceNumber: "INV-2", PaymentStatus: domain.PaymentPaid, DueDate: day(5), InvoiceDate: day(-25)},
	}}
	if items := ComputeAllItems(in, today, DefaultConfig()); len(items) != 0 {
		t.Fatalf("expected no items for paid invoices, got %+v", items)
	}
}

func TestComputeAllItemsEmptyInput(t *testing.T) {
	items := ComputeAllItems(Input{}, today, DefaultConfig())
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
	if TopItem(items) != nil {
		t.Fatalf("expected nil top item")
	}
	if !IsAllClear(items, DefaultAllClearThreshold) {
		t.Fatalf("expected empty feed to be all clear")
	}
}

func TestComputeAllItemsIgnoresUnparseableDates(t *testing.T) {
	in := Input{
		Invoices:      []Invoice{{ID: "i-1", PaymentStatus: domain.PaymentUnpaid, DueDate: "soon", InvoiceDate: "?"}},
		Projects:      []Project{{ID: "p-1", ProjectName: "Site", DomainRenewalDate: "31/12/2024"}},
		Subscriptions: []Subscription{{ID: "s-1", ToolName: "Tool", CancelByDate: "tomorrow"}},
		ActionItems:   []ActionItem{{ID: "a-1", Text: "Call", DueDate: "eod"}},
	}
	if items := ComputeAllItems(in, today, DefaultConfig()); len(items) != 0 {
		t.Fatalf("expected unparseable dates to be skipped, got %+v", items)
	}
}

func TestComputeAllItemsEndToEndRanking(t *testing.T) {
	in := Input{
		Invoices: []Invoice{{
			ID:            "inv-1",
			InvoiceNumber: "INV-001",
			ClientName:    "Acme",
			GrandTotal:    decimal.NewFromInt(5000),
			BalanceDue:    decimal.NewFromInt(5000),
			PaymentStatus: domain.PaymentOverdue,
			DueDate:       day(-10),
			InvoiceDate:   day(-40),
		}},
		Subscriptions: []Subscription{{
			ID:           "sub-1",
			ToolName:     "Copilot",
			CancelByDate: day(3),
			Cost:         decimal.NewNullDecimal(decimal.NewFromInt(20)),
		}},
	}

	items := ComputeAllItems(in, today, DefaultConfig())
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	top := TopItem(items)
	if top == nil || top.Type != TypeOverdueInvoice || top.EntityID != "inv-1" {
		t.Fatalf("expected overdue invoice on top, got %+v", top)
	}
	if top.UrgencyScore != 6192 {
		t.Fatalf("expected score 6192, got %d", top.UrgencyScore)
	}
	if top.Title != "Invoice INV-001 is 10 days overdue" {
		t.Fatalf("unexpected title %q", top.Title)
	}
	if top.DaysOverdue == nil || *top.DaysOverdue != 10 {
		t.Fatalf("expected days overdue 10, got %v", top.DaysOverdue)
	}
	if items[1].Type != TypeAISubscription || items[1].UrgencyScore != 311 {
		t.Fatalf("expected subscription second with 311, got %+v", items[1])
	}
	if items[1].Title != "Copilot expires in 3 days" {
		t.Fatalf("unexpected subscription title %q", items[1].Title)
	}
}

func TestComputeAllItemsSkipsCancelledAndCompleted(t *testing.T) {
	in := Input{
		Subscriptions: []Subscription{{ID: "s-1", ToolName: "Tool", CancelByDate: day(1), ManualStatus: domain.ManualStatusCancelled}},
		ActionItems:   []ActionItem{{ID: "a-1", Text: "Done", DueDate: day(-1), Completed: true}},
	}
	if items := ComputeAllItems(in, today, DefaultConfig()); len(items) != 0 {
		t.Fatalf("expected cancelled/completed to be skipped, got %+v", items)
	}
}

func TestComputeAllItemsRenewalTitles(t *testing.T) {
	in := Input{Projects: []Project{
		{ID: "p-1", ClientName: "Acme", ProjectName: "Shop", DomainName: "acme.com", DomainRenewalDate: day(-3)},
		{ID: "p-2", ClientName: "Beta", ProjectName: "Blog", HostingRenewalDate: day(1)},
		{ID: "p-3", ProjectName: "Docs", DomainRenewalDate: day(0)},
	}}
	items := ComputeAllItems(in, today, DefaultConfig())
	titles := map[string]string{}
	for _, item := range items {
		titles[item.ID] = item.Title
	}
	want := map[string]string{
		"domain_renewal:p-1":  "Domain acme.com expired 3 days ago",
		"hosting_renewal:p-2": "Hosting for Blog expires in 1 day",
		"domain_renewal:p-3":  "Domain Docs expires today",
	}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("unexpected titles %v", titles)
	}
}

func TestComputeAllItemsTruncatesActionText(t *testing.T) {
	text := strings.Repeat("a", 60)
	in := Input{ActionItems: []ActionItem{{
		ID:      "a-1",
		Text:    text,
		DueDate: day(0),
		Context: ActionContext{Type: domain.ContextClient, ID: "c-1"},
	}}}
	items := ComputeAllItems(in, today, DefaultConfig())
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != strings.Repeat("a", 50)+"..." {
		t.Fatalf("unexpected truncated title %q", items[0].Title)
	}
	if items[0].ActionLink != "/clients/c-1" {
		t.Fatalf("unexpected action link %q", items[0].ActionLink)
	}
}

func TestComputeAllItemsTiesKeepInputOrder(t *testing.T) {
	in := Input{ActionItems: []ActionItem{
		{ID: "a-1", Text: "first", DueDate: day(0)},
		{ID: "a-2", Text: "second", DueDate: day(-4)},
		{ID: "a-3", Text: "third", DueDate: day(1)},
	}}
	items := ComputeAllItems(in, today, DefaultConfig())
	got := []string{items[0].EntityID, items[1].EntityID, items[2].EntityID}
	if !reflect.DeepEqual(got, []string{"a-1", "a-2", "a-3"}) {
		t.Fatalf("expected input order for equal scores, got %v", got)
	}
}

func TestComputeAllItemsIsDeterministic(t *testing.T) {
	in := Input{
		Invoices: []Invoice{{ID: "i-1", InvoiceNumber: "INV-1", PaymentStatus: domain.PaymentUnpaid, DueDate: day(5), InvoiceDate: day(-25)}},
		Projects: []Project{{ID: "p-1", ProjectName: "Shop", DomainRenewalDate: day(12)}},
	}
	first := ComputeAllItems(in, today, DefaultConfig())
	second := ComputeAllItems(in, today, DefaultConfig())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output, got %+v and %+v", first, second)
	}
}

func TestIsAllClear(t *testing.T) {
	if !IsAllClear([]Item{{UrgencyScore: 150}}, 200) {
		t.Fatalf("expected 150 to be all clear at 200")
	}
	if IsAllClear([]Item{{UrgencyScore: 250}}, 200) {
		t.Fatalf("expected 250 to break all clear at 200")
	}
}

func TestConfigNormalizeKeepsOverrides(t *testing.T) {
	cfg := Config{AISubscription: RenewalConfig{WindowDays: 14}}.Normalize()
	if cfg.AISubscription.WindowDays != 14 {
		t.Fatalf("expected override to survive, got %d", cfg.AISubscription.WindowDays)
	}
	if cfg.AISubscription.BaseScore != 150 || cfg.OverdueInvoice.BaseScore != 1000 {
		t.Fatalf("expected defaults to fill gaps, got %+v", cfg)
	}
}
