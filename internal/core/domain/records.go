package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentOverdue PaymentStatus = "Overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentUnpaid, PaymentPartial, PaymentOverdue:
		return true
	default:
		return false
	}
}

// ManualStatusCancelled is the only manual override a subscription can carry.
const ManualStatusCancelled = "Cancelled"

type ContextType string

const (
	ContextProject ContextType = "project"
	ContextClient  ContextType = "client"
)

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Project struct {
	ID                 string              `json:"id"`
	ClientID           string              `json:"client_id"`
	ClientName         string              `json:"client_name,omitempty"`
	ProjectName        string              `json:"project_name"`
	Status             string              `json:"status,omitempty"`
	DomainName         string              `json:"domain_name,omitempty"`
	DomainRenewalDate  string              `json:"domain_renewal_date,omitempty"`
	HostingProvider    string              `json:"hosting_provider,omitempty"`
	HostingRenewalDate string              `json:"hosting_renewal_date,omitempty"`
	PendingAmount      decimal.NullDecimal `json:"pending_amount"`
	PaymentStatus      PaymentStatus       `json:"payment_status,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type InvoiceLineItem struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Position    int             `json:"position"`
}

type Invoice struct {
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	ClientID      string            `json:"client_id"`
	ClientName    string            `json:"client_name,omitempty"`
	ProjectID     string            `json:"project_id,omitempty"`
	InvoiceDate   string            `json:"invoice_date"`
	DueDate       string            `json:"due_date,omitempty"`
	Items         []InvoiceLineItem `json:"items"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	BalanceDue    decimal.Decimal   `json:"balance_due"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// RecalculateTotals derives line amounts and the grand total from line items.
// Invoices without items keep the totals they were given.
func (inv *Invoice) RecalculateTotals() {
	if len(inv.Items) == 0 {
		return
	}
	total := decimal.Zero
	for i := range inv.Items {
		item := &inv.Items[i]
		item.Amount = item.Quantity.Mul(item.UnitPrice).Round(2)
		item.Position = i
		total = total.Add(item.Amount)
	}
	inv.GrandTotal = total
	if inv.PaymentStatus == PaymentPaid {
		inv.BalanceDue = decimal.Zero
	}
}

type AISubscription struct {
	ID           string              `json:"id"`
	ToolName     string              `json:"tool_name"`
	Plan         string              `json:"plan,omitempty"`
	Cost         decimal.NullDecimal `json:"cost"`
	BillingCycle string              `json:"billing_cycle,omitempty"`
	CancelByDate string              `json:"cancel_by_date,omitempty"`
	ManualStatus string              `json:"manual_status,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type ActionItem struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	DueDate     string      `json:"due_date,omitempty"`
	Completed   bool        `json:"completed"`
	ContextType ContextType `json:"context_type"`
	ContextID   string      `json:"context_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type EmailAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider,omitempty"`
	ClientID  string    `json:"client_id,omitempty"`
	Purpose   string    `json:"purpose,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EffortLog struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"project_id"`
	WorkDate    string              `json:"work_date"`
	Hours       decimal.Decimal     `json:"hours"`
	Description string              `json:"description,omitempty"`
	Billable    bool                `json:"billable"`
	Rate        decimal.NullDecimal `json:"rate"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Branding is the single business-identity row used on invoices and exports.
type Branding struct {
	BusinessName    string    `json:"business_name"`
	Tagline         string    `json:"tagline,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	LogoURL         string    `json:"logo_url,omitempty"`
	PrimaryColor    string    `json:"primary_color,omitempty"`
	InvoicePrefix   string    `json:"invoice_prefix,omitempty"`
	PaymentTermDays int       `json:"payment_term_days"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// ChangeEvent announces a write to one of the back-office records.
type ChangeEvent struct {
	Kind   string       `json:"kind"`
	ID     string       `json:"id"`
	Action ChangeAction `json:"action"`
	At     time.Time    `json:"at"`
}
