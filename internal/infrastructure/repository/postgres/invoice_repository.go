package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nbkdev/control-center/internal/core/domain"
)

// InvoiceRepository stores invoices together with their line items. Line items
// are owned by the invoice and are replaced wholesale on every update.
type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceSelect = `
SELECT i.id, i.invoice_number, i.client_id, COALESCE(c.name, ''), COALESCE(i.project_id, ''),
	to_char(i.invoice_date, 'YYYY-MM-DD'), to_char(i.due_date, 'YYYY-MM-DD'),
	i.grand_total, i.balance_due, i.payment_status, i.notes, i.created_at, i.updated_at
FROM invoices i
LEFT JOIN clients c ON c.id = i.client_id
`

const lineItemSelect = `
SELECT id, invoice_id, description, quantity, unit_price, amount, position
FROM invoice_line_items
`

func (r *InvoiceRepository) List(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, invoiceSelect+` ORDER BY i.invoice_date DESC, i.invoice_number`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Invoice, 0)
	index := make(map[string]int)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		index[inv.ID] = len(out)
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	itemRows, err := r.db.QueryContext(ctx, lineItemSelect+` ORDER BY invoice_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		item, err := scanLineItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		if i, ok := index[item.InvoiceID]; ok {
			out[i].Items = append(out[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice items: %w", err)
	}
	return out, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, invoiceSelect+` WHERE i.id = $1`, id))
	if err != nil {
		return nil, mapNoRows(err, "get invoice", id)
	}

	rows, err := r.db.QueryContext(ctx, lineItemSelect+` WHERE invoice_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice items: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.RecalculateTotals()
	stamp(&inv.CreatedAt, &inv.UpdatedAt)

	return r.inTx(ctx, "create invoice", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO invoices (
	id, invoice_number, client_id, project_id, invoice_date, due_date,
	grand_total, balance_due, payment_status, notes, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`, inv.ID, inv.InvoiceNumber, inv.ClientID, nullText(inv.ProjectID), inv.InvoiceDate, nullDate(inv.DueDate),
			inv.GrandTotal, inv.BalanceDue, string(inv.PaymentStatus), inv.Notes, inv.CreatedAt, inv.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.WrapError(domain.ErrConflict, "create invoice", err)
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
		return insertLineItems(ctx, tx, inv)
	})
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.RecalculateTotals()
	stamp(nil, &inv.UpdatedAt)

	return r.inTx(ctx, "update invoice", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
UPDATE invoices
SET invoice_number = $2, client_id = $3, project_id = $4, invoice_date = $5, due_date = $6,
	grand_total = $7, balance_due = $8, payment_status = $9, notes = $10, updated_at = $11
WHERE id = $1
`, inv.ID, inv.InvoiceNumber, inv.ClientID, nullText(inv.ProjectID), inv.InvoiceDate, nullDate(inv.DueDate),
			inv.GrandTotal, inv.BalanceDue, string(inv.PaymentStatus), inv.Notes, inv.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.WrapError(domain.ErrConflict, "update invoice", err)
			}
			return fmt.Errorf("update invoice: %w", err)
		}
		if err := expectOneRow(result, "update invoice", inv.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return fmt.Errorf("clear invoice items: %w", err)
		}
		return insertLineItems(ctx, tx, inv)
	})
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return expectOneRow(result, "delete invoice", id)
}

func (r *InvoiceRepository) inTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s begin tx: %w", operation, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s commit: %w", operation, err)
	}
	return nil
}

func insertLineItems(ctx context.Context, tx *sql.Tx, inv *domain.Invoice) error {
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.InvoiceID = inv.ID
		_, err := tx.ExecContext(ctx, `
INSERT INTO invoice_line_items (id, invoice_id, description, quantity, unit_price, amount, position)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Amount, item.Position)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var (
		inv           domain.Invoice
		invoiceDate   sql.NullString
		dueDate       sql.NullString
		paymentStatus string
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.ClientName, &inv.ProjectID,
		&invoiceDate, &dueDate, &inv.GrandTotal, &inv.BalanceDue, &paymentStatus,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invoice{}, err
	}
	inv.InvoiceDate = dateString(invoiceDate)
	inv.DueDate = dateString(dueDate)
	inv.PaymentStatus = domain.PaymentStatus(paymentStatus)
	inv.Items = []domain.InvoiceLineItem{}
	return inv, nil
}

func scanLineItem(row rowScanner) (domain.InvoiceLineItem, error) {
	var item domain.InvoiceLineItem
	err := row.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Amount, &item.Position)
	return item, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
