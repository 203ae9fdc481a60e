package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nbkdev/control-center/internal/core/domain"
)

type ActionItemRepository struct {
	db *sql.DB
}

func NewActionItemRepository(db *sql.DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

const actionItemSelect = `
SELECT id, text, to_char(due_date, 'YYYY-MM-DD'), completed, context_type, context_id, created_at, updated_at
FROM action_items
`

func (r *ActionItemRepository) List(ctx context.Context) ([]domain.ActionItem, error) {
	rows, err := r.db.QueryContext(ctx, actionItemSelect+` ORDER BY completed, due_date NULLS LAST, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list action items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ActionItem, 0)
	for rows.Next() {
		a, err := scanActionItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action item: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action items: %w", err)
	}
	return out, nil
}

func (r *ActionItemRepository) GetByID(ctx context.Context, id string) (*domain.ActionItem, error) {
	a, err := scanActionItem(r.db.QueryRowContext(ctx, actionItemSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapNoRows(err, "get action item", id)
	}
	return &a, nil
}

func (r *ActionItemRepository) Create(ctx context.Context, a *domain.ActionItem) error {
	stamp(&a.CreatedAt, &a.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO action_items (id, text, due_date, completed, context_type, context_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, a.ID, a.Text, nullDate(a.DueDate), a.Completed, string(a.ContextType), a.ContextID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert action item: %w", err)
	}
	return nil
}

func (r *ActionItemRepository) Update(ctx context.Context, a *domain.ActionItem) error {
	stamp(nil, &a.UpdatedAt)
	result, err := r.db.ExecContext(ctx, `
UPDATE action_items
SET text = $2, due_date = $3, completed = $4, context_type = $5, context_id = $6, updated_at = $7
WHERE id = $1
`, a.ID, a.Text, nullDate(a.DueDate), a.Completed, string(a.ContextType), a.ContextID, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update action item: %w", err)
	}
	return expectOneRow(result, "update action item", a.ID)
}

func (r *ActionItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM action_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete action item: %w", err)
	}
	return expectOneRow(result, "delete action item", id)
}

func scanActionItem(row rowScanner) (domain.ActionItem, error) {
	var (
		a           domain.ActionItem
		dueDate     sql.NullString
		contextType string
	)
	err := row.Scan(&a.ID, &a.Text, &dueDate, &a.Completed, &contextType, &a.ContextID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.ActionItem{}, err
	}
	a.DueDate = dateString(dueDate)
	a.ContextType = domain.ContextType(contextType)
	return a, nil
}
