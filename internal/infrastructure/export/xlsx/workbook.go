// Package xlsx renders invoices and the attention feed as spreadsheets.
package xlsx

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/domain"
)

const (
	InvoicesSheet  = "Invoices"
	AttentionSheet = "Attention"
	VitalsSheet    = "Vitals"
)

var invoiceHeader = []any{"Invoice", "Client", "Invoice date", "Due date", "Status", "Grand total", "Balance due", "Line items"}

var attentionHeader = []any{"Rank", "Type", "Title", "Context", "Score", "Days overdue", "Days left", "Amount", "Action", "Link"}

// WriteInvoices writes one row per invoice. A non-nil branding adds a title row.
func WriteInvoices(w io.Writer, invoices []domain.Invoice, branding *domain.Branding) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", InvoicesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if branding != nil && branding.BusinessName != "" {
		if err := setRow(f, InvoicesSheet, row, []any{branding.BusinessName}); err != nil {
			return err
		}
		row += 2
	}
	if err := writeHeader(f, InvoicesSheet, row, invoiceHeader); err != nil {
		return err
	}
	for _, inv := range invoices {
		row++
		values := []any{
			inv.InvoiceNumber,
			inv.ClientName,
			inv.InvoiceDate,
			inv.DueDate,
			string(inv.PaymentStatus),
			money(inv.GrandTotal),
			money(inv.BalanceDue),
			len(inv.Items),
		}
		if err := setRow(f, InvoicesSheet, row, values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(InvoicesSheet, "A", "H", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteAttention writes the ranked feed plus a second sheet with the vitals.
func WriteAttention(w io.Writer, snap attention.Snapshot) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", AttentionSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeader(f, AttentionSheet, 1, attentionHeader); err != nil {
		return err
	}
	for i, item := range snap.Items {
		values := []any{
			i + 1,
			string(item.Type),
			item.Title,
			item.Context,
			item.UrgencyScore,
			optionalInt(item.DaysOverdue),
			optionalInt(item.DaysLeft),
			optionalMoney(item.Amount),
			item.ActionLabel,
			item.ActionLink,
		}
		if err := setRow(f, AttentionSheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(AttentionSheet, "C", "C", 48); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(VitalsSheet); err != nil {
		return fmt.Errorf("create vitals sheet: %w", err)
	}
	vitalsRows := [][]any{
		{"As of", snap.AsOf},
		{"All clear", snap.AllClear},
		{"Total pending payments", money(snap.Vitals.TotalPendingPayments)},
		{"Revenue this month", money(snap.Vitals.RevenueThisMonth)},
		{"30-day expense horizon", money(snap.Vitals.ThirtyDayExpenseHorizon)},
	}
	for i, values := range vitalsRows {
		if err := setRow(f, VitalsSheet, i+1, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, row int, header []any) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := setRow(f, sheet, row, header); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(header), row)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalMoney(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
