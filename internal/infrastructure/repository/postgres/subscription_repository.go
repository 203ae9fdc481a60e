package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nbkdev/control-center/internal/core/domain"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionSelect = `
SELECT id, tool_name, plan, cost, billing_cycle, to_char(cancel_by_date, 'YYYY-MM-DD'),
	manual_status, notes, created_at, updated_at
FROM ai_subscriptions
`

func (r *SubscriptionRepository) List(ctx context.Context) ([]domain.AISubscription, error) {
	rows, err := r.db.QueryContext(ctx, subscriptionSelect+` ORDER BY cancel_by_date NULLS LAST, tool_name`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.AISubscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return out, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*domain.AISubscription, error) {
	s, err := scanSubscription(r.db.QueryRowContext(ctx, subscriptionSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapNoRows(err, "get subscription", id)
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.AISubscription) error {
	stamp(&s.CreatedAt, &s.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO ai_subscriptions (
	id, tool_name, plan, cost, billing_cycle, cancel_by_date, manual_status, notes, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, s.ID, s.ToolName, s.Plan, s.Cost, s.BillingCycle, nullDate(s.CancelByDate), s.ManualStatus, s.Notes,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, s *domain.AISubscription) error {
	stamp(nil, &s.UpdatedAt)
	result, err := r.db.ExecContext(ctx, `
UPDATE ai_subscriptions
SET tool_name = $2, plan = $3, cost = $4, billing_cycle = $5, cancel_by_date = $6,
	manual_status = $7, notes = $8, updated_at = $9
WHERE id = $1
`, s.ID, s.ToolName, s.Plan, s.Cost, s.BillingCycle, nullDate(s.CancelByDate), s.ManualStatus, s.Notes, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return expectOneRow(result, "update subscription", s.ID)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ai_subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return expectOneRow(result, "delete subscription", id)
}

func scanSubscription(row rowScanner) (domain.AISubscription, error) {
	var (
		s        domain.AISubscription
		cancelBy sql.NullString
	)
	err := row.Scan(&s.ID, &s.ToolName, &s.Plan, &s.Cost, &s.BillingCycle, &cancelBy,
		&s.ManualStatus, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.AISubscription{}, err
	}
	s.CancelByDate = dateString(cancelBy)
	return s, nil
}
