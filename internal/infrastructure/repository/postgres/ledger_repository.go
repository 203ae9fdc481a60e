package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nbkdev/control-center/internal/core/reminder"
)

// LedgerRepository keeps one reminder ledger per device in a shared table.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) ForDevice(deviceID string) reminder.Store {
	return &deviceLedger{db: r.db, deviceID: deviceID}
}

type deviceLedger struct {
	db       *sql.DB
	deviceID string
}

func (d *deviceLedger) Get(ctx context.Context, key string) (string, bool, error) {
	var day string
	err := d.db.QueryRowContext(ctx, `
SELECT shown_on FROM reminder_ledger WHERE device_id = $1 AND reminder_key = $2
`, d.deviceID, key).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get ledger entry: %w", err)
	}
	return day, true, nil
}

func (d *deviceLedger) Set(ctx context.Context, key, day string) error {
	_, err := d.db.ExecContext(ctx, `
INSERT INTO reminder_ledger (device_id, reminder_key, shown_on)
VALUES ($1,$2,$3)
ON CONFLICT (device_id, reminder_key) DO UPDATE SET shown_on = EXCLUDED.shown_on
`, d.deviceID, key, day)
	if err != nil {
		return fmt.Errorf("set ledger entry: %w", err)
	}
	return nil
}
