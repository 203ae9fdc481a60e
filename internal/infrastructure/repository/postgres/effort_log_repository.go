package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nbkdev/control-center/internal/core/domain"
)

type EffortLogRepository struct {
	db *sql.DB
}

func NewEffortLogRepository(db *sql.DB) *EffortLogRepository {
	return &EffortLogRepository{db: db}
}

const effortLogSelect = `
SELECT id, project_id, to_char(work_date, 'YYYY-MM-DD'), hours, description, billable, rate, created_at, updated_at
FROM effort_logs
`

func (r *EffortLogRepository) List(ctx context.Context) ([]domain.EffortLog, error) {
	rows, err := r.db.QueryContext(ctx, effortLogSelect+` ORDER BY work_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list effort logs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.EffortLog, 0)
	for rows.Next() {
		e, err := scanEffortLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan effort log: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate effort logs: %w", err)
	}
	return out, nil
}

func (r *EffortLogRepository) GetByID(ctx context.Context, id string) (*domain.EffortLog, error) {
	e, err := scanEffortLog(r.db.QueryRowContext(ctx, effortLogSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapNoRows(err, "get effort log", id)
	}
	return &e, nil
}

func (r *EffortLogRepository) Create(ctx context.Context, e *domain.EffortLog) error {
	stamp(&e.CreatedAt, &e.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO effort_logs (id, project_id, work_date, hours, description, billable, rate, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, e.ID, e.ProjectID, e.WorkDate, e.Hours, e.Description, e.Billable, e.Rate, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert effort log: %w", err)
	}
	return nil
}

func (r *EffortLogRepository) Update(ctx context.Context, e *domain.EffortLog) error {
	stamp(nil, &e.UpdatedAt)
	result, err := r.db.ExecContext(ctx, `
UPDATE effort_logs
SET project_id = $2, work_date = $3, hours = $4, description = $5, billable = $6, rate = $7, updated_at = $8
WHERE id = $1
`, e.ID, e.ProjectID, e.WorkDate, e.Hours, e.Description, e.Billable, e.Rate, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update effort log: %w", err)
	}
	return expectOneRow(result, "update effort log", e.ID)
}

func (r *EffortLogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM effort_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete effort log: %w", err)
	}
	return expectOneRow(result, "delete effort log", id)
}

func scanEffortLog(row rowScanner) (domain.EffortLog, error) {
	var (
		e        domain.EffortLog
		workDate sql.NullString
	)
	err := row.Scan(&e.ID, &e.ProjectID, &workDate, &e.Hours, &e.Description, &e.Billable, &e.Rate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.EffortLog{}, err
	}
	e.WorkDate = dateString(workDate)
	return e, nil
}
