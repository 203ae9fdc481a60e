package vitals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

var today = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) string {
	return today.AddDate(0, 0, offset).Format("2006-01-02")
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func cost(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestComputeEmptyInputIsZero(t *testing.T) {
	got := Compute(nil, nil, today)
	if !got.TotalPendingPayments.IsZero() || !got.RevenueThisMonth.IsZero() || !got.ThirtyDayExpenseHorizon.IsZero() {
		t.Fatalf("expected zero vitals, got %+v", got)
	}
}

func TestPendingPaymentsExcludesPaid(t *testing.T) {
	invoices := []urgency.Invoice{
		{BalanceDue: money(5000), PaymentStatus: domain.PaymentOverdue},
		{BalanceDue: money(300), PaymentStatus: domain.PaymentPartial},
		{BalanceDue: money(999), PaymentStatus: domain.PaymentPaid},
	}
	if got := PendingPayments(invoices); !got.Equal(money(5300)) {
		t.Fatalf("expected 5300, got %s", got)
	}
}

func TestRevenueThisMonthCountsPaidFromMonthStart(t *testing.T) {
	invoices := []urgency.Invoice{
		{GrandTotal: money(100), PaymentStatus: domain.PaymentPaid, InvoiceDate: "2024-01-01"},
		{GrandTotal: money(200), PaymentStatus: domain.PaymentPaid, InvoiceDate: "2023-12-31"},
		{GrandTotal: money(400), PaymentStatus: domain.PaymentUnpaid, InvoiceDate: "2024-01-10"},
		{GrandTotal: money(800), PaymentStatus: domain.PaymentPaid, InvoiceDate: "garbage"},
	}
	if got := RevenueThisMonth(invoices, today); !got.Equal(money(100)) {
		t.Fatalf("expected 100, got %s", got)
	}
}

func TestExpenseHorizonWindow(t *testing.T) {
	subs := []urgency.Subscription{
		{CancelByDate: day(0), Cost: cost(10)},
		{CancelByDate: day(30), Cost: cost(20)},
		{CancelByDate: day(31), Cost: cost(40)},
		{CancelByDate: day(-1), Cost: cost(80)},
		{CancelByDate: day(5), Cost: cost(160), ManualStatus: domain.ManualStatusCancelled},
		{CancelByDate: day(5)},
	}
	if got := ExpenseHorizon(subs, today); !got.Equal(money(30)) {
		t.Fatalf("expected 30, got %s", got)
	}
}

func TestComputeEndToEnd(t *testing.T) {
	invoices := []urgency.Invoice{{
		ID:            "inv-1",
		BalanceDue:    money(5000),
		GrandTotal:    money(5000),
		PaymentStatus: domain.PaymentOverdue,
		DueDate:       day(-10),
		InvoiceDate:   day(-40),
	}}
	subs := []urgency.Subscription{{ID: "sub-1", CancelByDate: day(3), Cost: cost(20)}}

	got := Compute(invoices, subs, today)
	if !got.TotalPendingPayments.Equal(money(5000)) {
		t.Fatalf("expected pending 5000, got %s", got.TotalPendingPayments)
	}
	if !got.ThirtyDayExpenseHorizon.Equal(money(20)) {
		t.Fatalf("expected horizon 20, got %s", got.ThirtyDayExpenseHorizon)
	}
	if !got.RevenueThisMonth.IsZero() {
		t.Fatalf("expected no revenue, got %s", got.RevenueThisMonth)
	}
}
