package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"babypool/internal/apperr"
	"babypool/internal/model"
)

const tenantColumns = `id, subdomain, site_name, parent_names, description, primary_color,
	secondary_color, logo_url, slideshow_images, due_date, payment_handle, api_base_url,
	winner_percentage, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (model.Tenant, error) {
	var (
		t       model.Tenant
		images  pq.StringArray
		dueDate sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Subdomain, &t.SiteName, &t.ParentNames, &t.Description,
		&t.PrimaryColor, &t.SecondaryColor, &t.LogoURL, &images, &dueDate,
		&t.PaymentHandle, &t.APIBaseURL, &t.WinnerPercentage, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Tenant{}, err
	}
	t.SlideshowImages = []string(images)
	if dueDate.Valid {
		t.DueDate = dueDate.Time
	}
	return t, nil
}

func nullDate(t model.Tenant) sql.NullTime {
	return sql.NullTime{Time: t.DueDate, Valid: !t.DueDate.IsZero()}
}

// IsTaken reports whether name was ever claimed. Claims are kept after the
// tenant is deleted.
func (s *Storage) IsTaken(ctx context.Context, name string) (bool, error) {
	var taken bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM subdomains WHERE name = $1)`, name).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("subdomain lookup failed: %w", err)
	}
	return taken, nil
}

// CreateTenant claims the subdomain and stores the tenant with its
// categories in one transaction. A name that was already claimed yields
// ErrSubdomainTaken.
func (s *Storage) CreateTenant(ctx context.Context, t model.Tenant, categories []model.Category) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO subdomains (name, tenant_id, claimed_at) VALUES ($1, $2, $3)`,
			t.Subdomain, t.ID, t.CreatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", apperr.ErrSubdomainTaken, t.Subdomain)
		}
		if err != nil {
			return fmt.Errorf("failed to claim subdomain: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO tenants (`+tenantColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			t.ID, t.Subdomain, t.SiteName, t.ParentNames, t.Description, t.PrimaryColor,
			t.SecondaryColor, t.LogoURL, pq.Array(t.SlideshowImages), nullDate(t), t.PaymentHandle,
			t.APIBaseURL, t.WinnerPercentage, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert tenant: %w", err)
		}

		return insertCategories(ctx, tx, t.ID, categories)
	})
}

// UpdateTenant replaces every config field except id, subdomain and
// created_at.
func (s *Storage) UpdateTenant(ctx context.Context, t model.Tenant) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE tenants SET
			site_name = $2, parent_names = $3, description = $4, primary_color = $5,
			secondary_color = $6, logo_url = $7, slideshow_images = $8, due_date = $9,
			payment_handle = $10, api_base_url = $11, winner_percentage = $12, updated_at = $13
		WHERE id = $1`,
		t.ID, t.SiteName, t.ParentNames, t.Description, t.PrimaryColor, t.SecondaryColor,
		t.LogoURL, pq.Array(t.SlideshowImages), nullDate(t), t.PaymentHandle, t.APIBaseURL,
		t.WinnerPercentage, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrTenantNotFound, t.ID)
	}
	return nil
}

func (s *Storage) GetTenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrTenantNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	return &t, nil
}

func (s *Storage) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// DeleteTenant removes a tenant without bets. Its subdomain stays claimed.
func (s *Storage) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockTenant(ctx, tx, id); err != nil {
			return err
		}

		var bets int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bets WHERE tenant_id = $1`, id).Scan(&bets); err != nil {
			return fmt.Errorf("failed to count bets: %w", err)
		}
		if bets > 0 {
			return fmt.Errorf("%w: %d bets recorded", apperr.ErrTenantHasBets, bets)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete tenant: %w", err)
		}
		return nil
	})
}
