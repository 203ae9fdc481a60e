package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nbkdev/control-center/internal/core/domain"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
	project_name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT '',
	domain_name TEXT NOT NULL DEFAULT '',
	domain_renewal_date DATE,
	hosting_provider TEXT NOT NULL DEFAULT '',
	hosting_renewal_date DATE,
	pending_amount NUMERIC(12,2),
	payment_status TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS invoices (
	id TEXT PRIMARY KEY,
	invoice_number TEXT NOT NULL UNIQUE,
	client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
	project_id TEXT REFERENCES projects(id) ON DELETE SET NULL,
	invoice_date DATE NOT NULL,
	due_date DATE,
	grand_total NUMERIC(12,2) NOT NULL DEFAULT 0,
	balance_due NUMERIC(12,2) NOT NULL DEFAULT 0,
	payment_status TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS invoice_line_items (
	id TEXT PRIMARY KEY,
	invoice_id TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
	description TEXT NOT NULL,
	quantity NUMERIC(12,2) NOT NULL,
	unit_price NUMERIC(12,2) NOT NULL,
	amount NUMERIC(12,2) NOT NULL,
	position INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ai_subscriptions (
	id TEXT PRIMARY KEY,
	tool_name TEXT NOT NULL,
	plan TEXT NOT NULL DEFAULT '',
	cost NUMERIC(12,2),
	billing_cycle TEXT NOT NULL DEFAULT '',
	cancel_by_date DATE,
	manual_status TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS action_items (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	due_date DATE,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	context_type TEXT NOT NULL,
	context_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS email_accounts (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	provider TEXT NOT NULL DEFAULT '',
	client_id TEXT REFERENCES clients(id) ON DELETE SET NULL,
	purpose TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS effort_logs (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	work_date DATE NOT NULL,
	hours NUMERIC(6,2) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	billable BOOLEAN NOT NULL DEFAULT TRUE,
	rate NUMERIC(12,2),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS business_branding (
	singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	business_name TEXT NOT NULL,
	tagline TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	logo_url TEXT NOT NULL DEFAULT '',
	primary_color TEXT NOT NULL DEFAULT '',
	invoice_prefix TEXT NOT NULL DEFAULT '',
	payment_term_days INT NOT NULL DEFAULT 30,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS reminder_ledger (
	device_id TEXT NOT NULL,
	reminder_key TEXT NOT NULL,
	shown_on TEXT NOT NULL,
	PRIMARY KEY (device_id, reminder_key)
);

CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id);
CREATE INDEX IF NOT EXISTS idx_invoices_client ON invoices(client_id);
CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(payment_status);
CREATE INDEX IF NOT EXISTS idx_line_items_invoice ON invoice_line_items(invoice_id, position);
CREATE INDEX IF NOT EXISTS idx_action_items_open ON action_items(completed, due_date);
CREATE INDEX IF NOT EXISTS idx_effort_logs_project ON effort_logs(project_id, work_date DESC);
`

// EnsureSchema creates every table the service reads or writes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2024011501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// nullDate turns the empty string into SQL NULL.
func nullDate(day string) any {
	day = strings.TrimSpace(day)
	if day == "" {
		return nil
	}
	return day
}

func nullText(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func dateString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func notFound(operation, id string) error {
	return domain.WrapError(domain.ErrNotFound, operation, fmt.Errorf("id=%s", id))
}

func mapNoRows(err error, operation, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(operation, id)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// expectOneRow turns a zero-row UPDATE/DELETE into ErrNotFound.
func expectOneRow(result sql.Result, operation, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if rows == 0 {
		return notFound(operation, id)
	}
	return nil
}

func stamp(created *time.Time, updated *time.Time) {
	now := time.Now().UTC()
	if created != nil && created.IsZero() {
		*created = now
	}
	*updated = now
}
