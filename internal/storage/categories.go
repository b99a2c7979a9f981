package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"babypool/internal/apperr"
	"babypool/internal/model"
)

func listCategories(ctx context.Context, q queryer, tenantID uuid.UUID) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT key, name, description, placeholder, position
		FROM categories
		WHERE tenant_id = $1
		ORDER BY position, key`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Key, &c.Name, &c.Description, &c.Placeholder, &c.Position); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func insertCategories(ctx context.Context, tx *sql.Tx, tenantID uuid.UUID, categories []model.Category) error {
	for _, c := range categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (tenant_id, key, name, description, placeholder, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			tenantID, c.Key, c.Name, c.Description, c.Placeholder, c.Position)
		if err != nil {
			return fmt.Errorf("failed to insert category %s: %w", c.Key, err)
		}
	}
	return nil
}

// ListCategories returns the tenant's categories in display order.
func (s *Storage) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error) {
	return listCategories(ctx, s.DB, tenantID)
}

// ReplaceCategories swaps the whole category set. It refuses when a bet
// references a key that the new set drops.
func (s *Storage) ReplaceCategories(ctx context.Context, tenantID uuid.UUID, categories []model.Category) error {
	keys := make([]string, len(categories))
	for i, c := range categories {
		keys[i] = c.Key
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockTenant(ctx, tx, tenantID); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `
			SELECT DISTINCT category_key FROM bets
			WHERE tenant_id = $1 AND NOT (category_key = ANY($2))
			ORDER BY category_key`, tenantID, pq.Array(keys))
		if err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		var orphaned []string
		for rows.Next() {
			var k string
			if err := rows.Scan(&k); err != nil {
				rows.Close()
				return fmt.Errorf("scan failed: %w", err)
			}
			orphaned = append(orphaned, k)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		rows.Close()
		if len(orphaned) > 0 {
			return fmt.Errorf("%w: %s", apperr.ErrCategoryInUse, strings.Join(orphaned, ", "))
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE tenant_id = $1`, tenantID); err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}
		return insertCategories(ctx, tx, tenantID, categories)
	})
}
