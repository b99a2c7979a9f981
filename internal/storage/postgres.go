// internal/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"babypool/internal/apperr"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Storage struct {
	DB     *sql.DB
	logger *zap.Logger
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewStorage(dsn string, logger *zap.Logger) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return New(db, logger), nil
}

// New wraps an existing handle.
func New(db *sql.DB, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{DB: db, logger: logger}
}

// Migrate creates the schema if it does not exist.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// withTx runs fn in a transaction, committing only when fn returns nil.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

// lockTenant takes a row lock on the tenant. Every ledger and category
// mutation for a tenant goes through it, so they serialize per tenant.
func lockTenant(ctx context.Context, tx *sql.Tx, tenantID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM tenants WHERE id = $1 FOR UPDATE`, tenantID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperr.ErrTenantNotFound, tenantID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock tenant: %w", err)
	}
	return nil
}

// InTenantTx runs fn inside a transaction holding the tenant's row lock.
func (s *Storage) InTenantTx(ctx context.Context, tenantID uuid.UUID, fn func(LedgerTx) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockTenant(ctx, tx, tenantID); err != nil {
			return err
		}
		return fn(&ledgerTx{tx: tx, tenantID: tenantID})
	})
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
