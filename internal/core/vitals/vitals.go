// Package vitals sums the money figures shown next to the attention feed.
// It reads the same snapshot as the urgency engine but shares no state with it.
package vitals

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nbkdev/control-center/internal/core/calendar"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

// ExpenseHorizonDays bounds the forward-looking subscription spend.
const ExpenseHorizonDays = 30

type Vitals struct {
	TotalPendingPayments    decimal.Decimal `json:"total_pending_payments"`
	RevenueThisMonth        decimal.Decimal `json:"revenue_this_month"`
	ThirtyDayExpenseHorizon decimal.Decimal `json:"thirty_day_expense_horizon"`
}

func Compute(invoices []urgency.Invoice, subscriptions []urgency.Subscription, today time.Time) Vitals {
	return Vitals{
		TotalPendingPayments:    PendingPayments(invoices),
		RevenueThisMonth:        RevenueThisMonth(invoices, today),
		ThirtyDayExpenseHorizon: ExpenseHorizon(subscriptions, today),
	}
}

func PendingPayments(invoices []urgency.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.PaymentStatus != domain.PaymentPaid {
			total = total.Add(inv.BalanceDue)
		}
	}
	return total
}

func RevenueThisMonth(invoices []urgency.Invoice, today time.Time) decimal.Decimal {
	monthStart := calendar.StartOfMonth(today)
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.PaymentStatus != domain.PaymentPaid {
			continue
		}
		issued, ok := calendar.ParseDay(inv.InvoiceDate, today.Location())
		if !ok || issued.Before(monthStart) {
			continue
		}
		total = total.Add(inv.GrandTotal)
	}
	return total
}

// ExpenseHorizon sums costs of live subscriptions whose cancel-by date falls
// in [today, today+30]. Already-expired subscriptions are left out.
func ExpenseHorizon(subscriptions []urgency.Subscription, today time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range subscriptions {
		if sub.ManualStatus == domain.ManualStatusCancelled || !sub.Cost.Valid {
			continue
		}
		daysLeft, ok := calendar.DaysUntil(sub.CancelByDate, today)
		if !ok || daysLeft < 0 || daysLeft > ExpenseHorizonDays {
			continue
		}
		total = total.Add(sub.Cost.Decimal)
	}
	return total
}
