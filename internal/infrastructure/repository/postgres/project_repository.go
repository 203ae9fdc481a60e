package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nbkdev/control-center/internal/core/domain"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectSelect = `
SELECT p.id, p.client_id, COALESCE(c.name, ''), p.project_name, p.status,
	p.domain_name, to_char(p.domain_renewal_date, 'YYYY-MM-DD'),
	p.hosting_provider, to_char(p.hosting_renewal_date, 'YYYY-MM-DD'),
	p.pending_amount, p.payment_status, p.created_at, p.updated_at
FROM projects p
LEFT JOIN clients c ON c.id = p.client_id
`

func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, projectSelect+` ORDER BY p.project_name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, projectSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapNoRows(err, "get project", id)
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO projects (
	id, client_id, project_name, status, domain_name, domain_renewal_date,
	hosting_provider, hosting_renewal_date, pending_amount, payment_status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`, p.ID, p.ClientID, p.ProjectName, p.Status, p.DomainName, nullDate(p.DomainRenewalDate),
		p.HostingProvider, nullDate(p.HostingRenewalDate), p.PendingAmount, string(p.PaymentStatus),
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	stamp(nil, &p.UpdatedAt)
	result, err := r.db.ExecContext(ctx, `
UPDATE projects
SET client_id = $2, project_name = $3, status = $4, domain_name = $5, domain_renewal_date = $6,
	hosting_provider = $7, hosting_renewal_date = $8, pending_amount = $9, payment_status = $10,
	updated_at = $11
WHERE id = $1
`, p.ID, p.ClientID, p.ProjectName, p.Status, p.DomainName, nullDate(p.DomainRenewalDate),
		p.HostingProvider, nullDate(p.HostingRenewalDate), p.PendingAmount, string(p.PaymentStatus),
		p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return expectOneRow(result, "update project", p.ID)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return expectOneRow(result, "delete project", id)
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		p             domain.Project
		domainDate    sql.NullString
		hostingDate   sql.NullString
		paymentStatus string
	)
	err := row.Scan(
		&p.ID, &p.ClientID, &p.ClientName, &p.ProjectName, &p.Status,
		&p.DomainName, &domainDate, &p.HostingProvider, &hostingDate,
		&p.PendingAmount, &paymentStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, err
	}
	p.DomainRenewalDate = dateString(domainDate)
	p.HostingRenewalDate = dateString(hostingDate)
	p.PaymentStatus = domain.PaymentStatus(paymentStatus)
	return p, nil
}
