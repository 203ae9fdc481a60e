package xlsx

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/urgency"
	"github.com/nbkdev/control-center/internal/core/vitals"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", sheet, err)
	}
	return rows
}

func TestWriteInvoicesAddsBrandingTitle(t *testing.T) {
	var buf bytes.Buffer
	invoices := []domain.Invoice{{
		InvoiceNumber: "INV-001",
		ClientName:    "Acme",
		InvoiceDate:   "2024-01-01",
		DueDate:       "2024-01-31",
		PaymentStatus: domain.PaymentUnpaid,
		GrandTotal:    decimal.RequireFromString("1250.50"),
		BalanceDue:    decimal.RequireFromString("1250.50"),
		Items:         []domain.InvoiceLineItem{{Description: "Design"}},
	}}

	if err := WriteInvoices(&buf, invoices, &domain.Branding{BusinessName: "NBK Studio"}); err != nil {
		t.Fatalf("WriteInvoices() error = %v", err)
	}

	rows := readRows(t, buf.Bytes(), InvoicesSheet)
	if len(rows) != 4 {
		t.Fatalf("expected title, blank, header and one invoice row, got %d rows", len(rows))
	}
	if rows[0][0] != "NBK Studio" {
		t.Fatalf("expected branding title, got %v", rows[0])
	}
	if rows[2][0] != "Invoice" || rows[3][0] != "INV-001" || rows[3][5] != "1250.5" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestWriteAttentionIncludesVitalsSheet(t *testing.T) {
	days := 10
	snap := attention.Snapshot{
		AsOf: "2024-01-15",
		Items: []urgency.Item{{
			Type:         urgency.TypeOverdueInvoice,
			Title:        "Invoice INV-001 is 10 days overdue",
			Context:      "Acme",
			UrgencyScore: 6192,
			DaysOverdue:  &days,
			Amount:       decimal.NewNullDecimal(decimal.NewFromInt(5000)),
			ActionLabel:  "Record Payment",
			ActionLink:   "/invoices/inv-1",
		}},
		Vitals: vitals.Vitals{
			TotalPendingPayments:    decimal.NewFromInt(5000),
			RevenueThisMonth:        decimal.Zero,
			ThirtyDayExpenseHorizon: decimal.NewFromInt(20),
		},
	}

	var buf bytes.Buffer
	if err := WriteAttention(&buf, snap); err != nil {
		t.Fatalf("WriteAttention() error = %v", err)
	}

	feed := readRows(t, buf.Bytes(), AttentionSheet)
	if len(feed) != 2 {
		t.Fatalf("expected header and one item, got %d rows", len(feed))
	}
	if feed[1][0] != "1" || feed[1][4] != "6192" || feed[1][5] != "10" || feed[1][6] != "" {
		t.Fatalf("unexpected item row %v", feed[1])
	}

	vit := readRows(t, buf.Bytes(), VitalsSheet)
	if len(vit) != 5 || vit[2][1] != "5000" || vit[4][1] != "20" {
		t.Fatalf("unexpected vitals rows %v", vit)
	}
}
