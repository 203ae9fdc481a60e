package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

func invalid(operation, format string, args ...any) error {
	return WrapError(ErrInvalidInput, operation, fmt.Errorf(format, args...))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// checkDay accepts an empty value or a YYYY-MM-DD calendar date.
func checkDay(operation, field, value string) error {
	if blank(value) {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return invalid(operation, "%s must be YYYY-MM-DD, got %q", field, value)
	}
	return nil
}

func checkStatus(operation string, status PaymentStatus, required bool) error {
	if status == "" && !required {
		return nil
	}
	if !status.Valid() {
		return invalid(operation, "unknown payment status %q", status)
	}
	return nil
}

func (c Client) Validate() error {
	if blank(c.Name) {
		return invalid("validate client", "name is required")
	}
	return nil
}

func (p Project) Validate() error {
	const op = "validate project"
	if blank(p.ClientID) {
		return invalid(op, "client_id is required")
	}
	if blank(p.ProjectName) {
		return invalid(op, "project_name is required")
	}
	if p.PendingAmount.Valid && p.PendingAmount.Decimal.IsNegative() {
		return invalid(op, "pending_amount must not be negative")
	}
	return errors.Join(
		checkDay(op, "domain_renewal_date", p.DomainRenewalDate),
		checkDay(op, "hosting_renewal_date", p.HostingRenewalDate),
		checkStatus(op, p.PaymentStatus, false),
	)
}

func (inv Invoice) Validate() error {
	const op = "validate invoice"
	if blank(inv.InvoiceNumber) {
		return invalid(op, "invoice_number is required")
	}
	if blank(inv.ClientID) {
		return invalid(op, "client_id is required")
	}
	if blank(inv.InvoiceDate) {
		return invalid(op, "invoice_date is required")
	}
	for i, item := range inv.Items {
		if blank(item.Description) {
			return invalid(op, "items[%d].description is required", i)
		}
		if item.Quantity.IsNegative() || item.UnitPrice.IsNegative() {
			return invalid(op, "items[%d] must not be negative", i)
		}
	}
	if inv.BalanceDue.IsNegative() {
		return invalid(op, "balance_due must not be negative")
	}
	return errors.Join(
		checkDay(op, "invoice_date", inv.InvoiceDate),
		checkDay(op, "due_date", inv.DueDate),
		checkStatus(op, inv.PaymentStatus, true),
	)
}

func (s AISubscription) Validate() error {
	const op = "validate subscription"
	if blank(s.ToolName) {
		return invalid(op, "tool_name is required")
	}
	if s.ManualStatus != "" && s.ManualStatus != ManualStatusCancelled {
		return invalid(op, "manual_status must be empty or %q", ManualStatusCancelled)
	}
	if s.Cost.Valid && s.Cost.Decimal.IsNegative() {
		return invalid(op, "cost must not be negative")
	}
	return checkDay(op, "cancel_by_date", s.CancelByDate)
}

func (a ActionItem) Validate() error {
	const op = "validate action item"
	if blank(a.Text) {
		return invalid(op, "text is required")
	}
	if a.ContextType != ContextProject && a.ContextType != ContextClient {
		return invalid(op, "context_type must be %q or %q", ContextProject, ContextClient)
	}
	if blank(a.ContextID) {
		return invalid(op, "context_id is required")
	}
	return checkDay(op, "due_date", a.DueDate)
}

func (e EmailAccount) Validate() error {
	if !strings.Contains(e.Email, "@") {
		return invalid("validate email account", "email %q is not an address", e.Email)
	}
	return nil
}

func (e EffortLog) Validate() error {
	const op = "validate effort log"
	if blank(e.ProjectID) {
		return invalid(op, "project_id is required")
	}
	if blank(e.WorkDate) {
		return invalid(op, "work_date is required")
	}
	if !e.Hours.IsPositive() {
		return invalid(op, "hours must be positive")
	}
	return checkDay(op, "work_date", e.WorkDate)
}

func (b Branding) Validate() error {
	const op = "validate branding"
	if blank(b.BusinessName) {
		return invalid(op, "business_name is required")
	}
	if b.PaymentTermDays < 0 {
		return invalid(op, "payment_term_days must not be negative")
	}
	return nil
}
