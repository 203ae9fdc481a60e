package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nbkdev/control-center/internal/core/domain"
)

type EmailAccountRepository struct {
	db *sql.DB
}

func NewEmailAccountRepository(db *sql.DB) *EmailAccountRepository {
	return &EmailAccountRepository{db: db}
}

const emailAccountSelect = `
SELECT id, email, provider, COALESCE(client_id, ''), purpose, notes, created_at, updated_at
FROM email_accounts
`

func (r *EmailAccountRepository) List(ctx context.Context) ([]domain.EmailAccount, error) {
	rows, err := r.db.QueryContext(ctx, emailAccountSelect+` ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list email accounts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.EmailAccount, 0)
	for rows.Next() {
		e, err := scanEmailAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan email account: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email accounts: %w", err)
	}
	return out, nil
}

func (r *EmailAccountRepository) GetByID(ctx context.Context, id string) (*domain.EmailAccount, error) {
	e, err := scanEmailAccount(r.db.QueryRowContext(ctx, emailAccountSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapNoRows(err, "get email account", id)
	}
	return &e, nil
}

func (r *EmailAccountRepository) Create(ctx context.Context, e *domain.EmailAccount) error {
	stamp(&e.CreatedAt, &e.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO email_accounts (id, email, provider, client_id, purpose, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, e.ID, e.Email, e.Provider, nullText(e.ClientID), e.Purpose, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert email account: %w", err)
	}
	return nil
}

func (r *EmailAccountRepository) Update(ctx context.Context, e *domain.EmailAccount) error {
	stamp(nil, &e.UpdatedAt)
	result, err := r.db.ExecContext(ctx, `
UPDATE email_accounts
SET email = $2, provider = $3, client_id = $4, purpose = $5, notes = $6, updated_at = $7
WHERE id = $1
`, e.ID, e.Email, e.Provider, nullText(e.ClientID), e.Purpose, e.Notes, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update email account: %w", err)
	}
	return expectOneRow(result, "update email account", e.ID)
}

func (r *EmailAccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM email_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete email account: %w", err)
	}
	return expectOneRow(result, "delete email account", id)
}

func scanEmailAccount(row rowScanner) (domain.EmailAccount, error) {
	var e domain.EmailAccount
	err := row.Scan(&e.ID, &e.Email, &e.Provider, &e.ClientID, &e.Purpose, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
