package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"babypool/internal/model"
)

// LedgerTx is the view of a tenant-locked transaction the ledger works with.
type LedgerTx interface {
	Categories(ctx context.Context) ([]model.Category, error)
	InsertBets(ctx context.Context, bets []model.Bet) error
	BetsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Bet, error)
	MarkValidated(ctx context.Context, ids []uuid.UUID, validator string, at time.Time) (int, error)
}

const betColumns = `id, tenant_id, bettor_name, bettor_email, bettor_phone, category_key, value,
	amount, status, payment_ref, created_at, validated_by, validated_at`

func scanBet(row rowScanner) (model.Bet, error) {
	var (
		b           model.Bet
		status      string
		validatedBy sql.NullString
		validatedAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.TenantID, &b.BettorName, &b.BettorEmail, &b.BettorPhone,
		&b.CategoryKey, &b.Value, &b.Amount, &status, &b.PaymentRef, &b.CreatedAt,
		&validatedBy, &validatedAt)
	if err != nil {
		return model.Bet{}, err
	}
	b.Status = model.BetStatus(status)
	if validatedBy.Valid {
		b.ValidatedBy = &validatedBy.String
	}
	if validatedAt.Valid {
		b.ValidatedAt = &validatedAt.Time
	}
	return b, nil
}

func collectBets(rows *sql.Rows) ([]model.Bet, error) {
	defer rows.Close()
	var out []model.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListBets returns the tenant's bets oldest first.
func (s *Storage) ListBets(ctx context.Context, tenantID uuid.UUID, filter model.BetFilter) ([]model.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE tenant_id = $1`
	args := []any{tenantID}
	if filter.Validated != nil {
		status := model.BetUnvalidated
		if *filter.Validated {
			status = model.BetValidated
		}
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return collectBets(rows)
}

type ledgerTx struct {
	tx       *sql.Tx
	tenantID uuid.UUID
}

func (l *ledgerTx) Categories(ctx context.Context) ([]model.Category, error) {
	return listCategories(ctx, l.tx, l.tenantID)
}

func (l *ledgerTx) InsertBets(ctx context.Context, bets []model.Bet) error {
	for _, b := range bets {
		_, err := l.tx.ExecContext(ctx, `
			INSERT INTO bets (`+betColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULL, NULL)`,
			b.ID, l.tenantID, b.BettorName, b.BettorEmail, b.BettorPhone, b.CategoryKey,
			b.Value, b.Amount, string(b.Status), b.PaymentRef, b.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert bet: %w", err)
		}
	}
	return nil
}

func (l *ledgerTx) BetsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Bet, error) {
	rows, err := l.tx.QueryContext(ctx,
		`SELECT `+betColumns+` FROM bets WHERE tenant_id = $1 AND id = ANY($2::uuid[])`,
		l.tenantID, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	bets, err := collectBets(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]model.Bet, len(bets))
	for _, b := range bets {
		out[b.ID] = b
	}
	return out, nil
}

// MarkValidated flips unvalidated bets only, so a repeated call updates
// nothing and keeps the first validator and timestamp.
func (l *ledgerTx) MarkValidated(ctx context.Context, ids []uuid.UUID, validator string, at time.Time) (int, error) {
	res, err := l.tx.ExecContext(ctx, `
		UPDATE bets
		SET status = $3, validated_by = $4, validated_at = $5
		WHERE tenant_id = $1 AND id = ANY($2::uuid[]) AND status = $6`,
		l.tenantID, pq.Array(uuidStrings(ids)), string(model.BetValidated), validator, at,
		string(model.BetUnvalidated))
	if err != nil {
		return 0, fmt.Errorf("failed to validate bets: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
