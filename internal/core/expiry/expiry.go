package expiry

import (
	"time"

	"github.com/nbkdev/control-center/internal/core/calendar"
	"github.com/nbkdev/control-center/internal/core/domain"
)

type Status string

const (
	StatusActive       Status = "Active"
	StatusExpiringSoon Status = "Expiring Soon"
	StatusExpired      Status = "Expired"
	StatusCancelled    Status = "Cancelled"
)

const (
	// RenewalWindowDays is the attention window for domain and hosting renewals.
	RenewalWindowDays = 30
	// SubscriptionWindowDays is the attention window for AI-tool subscriptions.
	SubscriptionWindowDays = 7
)

type DateExpiry struct {
	Status   Status `json:"status"`
	DaysLeft int    `json:"days_left"`
}

// ComputeDateExpiry classifies date against today. It returns nil when the
// date is absent or unparseable: such entities are not tracked, not expired.
func ComputeDateExpiry(date string, windowDays int, today time.Time) *DateExpiry {
	daysLeft, ok := calendar.DaysUntil(date, today)
	if !ok {
		return nil
	}
	return &DateExpiry{Status: classify(daysLeft, windowDays), DaysLeft: daysLeft}
}

func classify(daysLeft, windowDays int) Status {
	switch {
	case daysLeft < 0:
		return StatusExpired
	case daysLeft <= windowDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// SubscriptionStatus is the classifier output for one subscription. DaysLeft
// is nil when the subscription has no usable cancel-by date.
type SubscriptionStatus struct {
	Status   Status `json:"status"`
	DaysLeft *int   `json:"days_left,omitempty"`
}

// ComputeSubscriptionStatus applies the manual Cancelled override before any
// date-derived status.
func ComputeSubscriptionStatus(manualStatus, cancelByDate string, today time.Time) SubscriptionStatus {
	exp := ComputeDateExpiry(cancelByDate, SubscriptionWindowDays, today)
	out := SubscriptionStatus{Status: StatusActive}
	if exp != nil {
		daysLeft := exp.DaysLeft
		out.Status = exp.Status
		out.DaysLeft = &daysLeft
	}
	if manualStatus == domain.ManualStatusCancelled {
		out.Status = StatusCancelled
	}
	return out
}

type ProjectRenewals struct {
	Domain  *DateExpiry `json:"domain_status"`
	Hosting *DateExpiry `json:"hosting_status"`
}

func ComputeProjectRenewals(p domain.Project, today time.Time) ProjectRenewals {
	return ProjectRenewals{
		Domain:  ComputeDateExpiry(p.DomainRenewalDate, RenewalWindowDays, today),
		Hosting: ComputeDateExpiry(p.HostingRenewalDate, RenewalWindowDays, today),
	}
}
