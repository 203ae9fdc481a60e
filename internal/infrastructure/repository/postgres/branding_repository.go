package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nbkdev/control-center/internal/core/domain"
)

type BrandingRepository struct {
	db *sql.DB
}

func NewBrandingRepository(db *sql.DB) *BrandingRepository {
	return &BrandingRepository{db: db}
}

// Get returns the stored branding, or ErrNotFound before the first Save.
func (r *BrandingRepository) Get(ctx context.Context) (*domain.Branding, error) {
	var b domain.Branding
	err := r.db.QueryRowContext(ctx, `
SELECT business_name, tagline, email, phone, address, logo_url, primary_color,
	invoice_prefix, payment_term_days, updated_at
FROM business_branding
WHERE singleton
`).Scan(&b.BusinessName, &b.Tagline, &b.Email, &b.Phone, &b.Address, &b.LogoURL, &b.PrimaryColor,
		&b.InvoicePrefix, &b.PaymentTermDays, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get branding", err)
		}
		return nil, fmt.Errorf("get branding: %w", err)
	}
	return &b, nil
}

func (r *BrandingRepository) Save(ctx context.Context, b *domain.Branding) error {
	b.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO business_branding (
	singleton, business_name, tagline, email, phone, address, logo_url, primary_color,
	invoice_prefix, payment_term_days, updated_at
) VALUES (TRUE,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (singleton) DO UPDATE SET
	business_name = EXCLUDED.business_name,
	tagline = EXCLUDED.tagline,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	address = EXCLUDED.address,
	logo_url = EXCLUDED.logo_url,
	primary_color = EXCLUDED.primary_color,
	invoice_prefix = EXCLUDED.invoice_prefix,
	payment_term_days = EXCLUDED.payment_term_days,
	updated_at = EXCLUDED.updated_at
`, b.BusinessName, b.Tagline, b.Email, b.Phone, b.Address, b.LogoURL, b.PrimaryColor,
		b.InvoicePrefix, b.PaymentTermDays, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save branding: %w", err)
	}
	return nil
}
