// Package cli renders attention, vitals and reminders for the terminal.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/expiry"
	"github.com/nbkdev/control-center/internal/core/reminder"
	"github.com/nbkdev/control-center/internal/core/vitals"
)

// CriticalScore marks items that should jump out of the feed.
const CriticalScore = 1000

var (
	PrimaryColor = lipgloss.Color("#5B8DEF")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

var attentionColumns = []string{"#", "SCORE", "TYPE", "TITLE", "CONTEXT", "AMOUNT", "ACTION"}

// ScoreStyle colours a score by how far it sits above the all-clear threshold.
func ScoreStyle(score, threshold int) lipgloss.Style {
	switch {
	case score >= CriticalScore:
		return ErrorStyle
	case score >= threshold:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

// RenderAttention prints the ranked feed. A positive limit caps the rows.
func RenderAttention(w io.Writer, snap attention.Snapshot, limit int) error {
	fmt.Fprintln(w, TitleStyle.Render("Attention as of "+snap.AsOf))
	if snap.AllClear {
		fmt.Fprintln(w, SuccessStyle.Render("All clear: nothing scores above "+strconv.Itoa(snap.Threshold)+"."))
	}
	if len(snap.Items) == 0 {
		return nil
	}

	items := snap.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, len(attentionColumns))
	for i, col := range attentionColumns {
		header[i] = HeaderStyle.Render(col)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			ScoreStyle(item.UrgencyScore, snap.Threshold).Render(strconv.Itoa(item.UrgencyScore)),
			item.Type,
			item.Title,
			item.Context,
			nullMoney(item.Amount),
			item.ActionLabel,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if hidden := len(snap.Items) - len(items); hidden > 0 {
		fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("… %d more", hidden)))
	}
	return nil
}

func RenderVitals(w io.Writer, asOf string, v vitals.Vitals) error {
	fmt.Fprintln(w, TitleStyle.Render("Financial vitals as of "+asOf))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pending payments\t%s\n", money(v.TotalPendingPayments))
	fmt.Fprintf(tw, "Revenue this month\t%s\n", money(v.RevenueThisMonth))
	fmt.Fprintf(tw, "30-day expense horizon\t%s\n", money(v.ThirtyDayExpenseHorizon))
	return tw.Flush()
}

// RenderReminder prints r, or a quiet line when there is nothing to show.
func RenderReminder(w io.Writer, r *reminder.Reminder) {
	if r == nil {
		fmt.Fprintln(w, SubtleStyle.Render("No reminders today."))
		return
	}
	style := WarningStyle
	if r.DaysLeft <= 0 {
		style = ErrorStyle
	}
	fmt.Fprintln(w, style.Render(r.Title))
	fmt.Fprintln(w, SubtleStyle.Render("key "+r.Key))
}

func RenderSubscriptionStatus(w io.Writer, sub domain.AISubscription, status expiry.SubscriptionStatus) {
	style := SuccessStyle
	switch status.Status {
	case expiry.StatusExpiringSoon:
		style = WarningStyle
	case expiry.StatusExpired:
		style = ErrorStyle
	case expiry.StatusCancelled:
		style = SubtleStyle
	}

	line := fmt.Sprintf("%s: %s", sub.ToolName, style.Render(string(status.Status)))
	if status.DaysLeft != nil {
		line += fmt.Sprintf(" (%s)", daysLeft(*status.DaysLeft))
	}
	fmt.Fprintln(w, line)
	if sub.Cost.Valid {
		fmt.Fprintln(w, SubtleStyle.Render("cost "+money(sub.Cost.Decimal)))
	}
}

func daysLeft(n int) string {
	switch {
	case n < 0:
		return fmt.Sprintf("ended %d days ago", -n)
	case n == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", n)
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return money(d.Decimal)
}

