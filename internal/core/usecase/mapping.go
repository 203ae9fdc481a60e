package usecase

import (
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/urgency"
)

func InvoicesForUrgency(rows []domain.Invoice) []urgency.Invoice {
	out := make([]urgency.Invoice, 0, len(rows))
	for _, r := range rows {
		out = append(out, urgency.Invoice{
			ID:            r.ID,
			InvoiceNumber: r.InvoiceNumber,
			ClientName:    r.ClientName,
			GrandTotal:    r.GrandTotal,
			BalanceDue:    r.BalanceDue,
			PaymentStatus: r.PaymentStatus,
			DueDate:       r.DueDate,
			InvoiceDate:   r.InvoiceDate,
		})
	}
	return out
}

func ProjectsForUrgency(rows []domain.Project) []urgency.Project {
	out := make([]urgency.Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, urgency.Project{
			ID:                 r.ID,
			ClientName:         r.ClientName,
			ProjectName:        r.ProjectName,
			DomainName:         r.DomainName,
			DomainRenewalDate:  r.DomainRenewalDate,
			HostingRenewalDate: r.HostingRenewalDate,
			PendingAmount:      r.PendingAmount,
			PaymentStatus:      r.PaymentStatus,
		})
	}
	return out
}

func SubscriptionsForUrgency(rows []domain.AISubscription) []urgency.Subscription {
	out := make([]urgency.Subscription, 0, len(rows))
	for _, r := range rows {
		out = append(out, urgency.Subscription{
			ID:           r.ID,
			ToolName:     r.ToolName,
			CancelByDate: r.CancelByDate,
			ManualStatus: r.ManualStatus,
			Cost:         r.Cost,
		})
	}
	return out
}

func ActionItemsForUrgency(rows []domain.ActionItem) []urgency.ActionItem {
	out := make([]urgency.ActionItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, urgency.ActionItem{
			ID:        r.ID,
			Text:      r.Text,
			DueDate:   r.DueDate,
			Completed: r.Completed,
			Context:   urgency.ActionContext{Type: r.ContextType, ID: r.ContextID},
		})
	}
	return out
}
