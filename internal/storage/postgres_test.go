package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"babypool/internal/apperr"
	"babypool/internal/model"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Storage) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, New(db, zap.NewNop())
}

func sampleTenant() model.Tenant {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return model.Tenant{
		ID:               uuid.New(),
		Subdomain:        "margo-partner",
		SiteName:         "Margo & Partner",
		PrimaryColor:     "#ff0000",
		SlideshowImages:  []string{"a.jpg"},
		DueDate:          time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		WinnerPercentage: decimal.NewFromFloat(0.5),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func expectLock(mock sqlmock.Sqlmock, tenantID uuid.UUID) {
	mock.ExpectQuery(`SELECT id FROM tenants WHERE id = \$1 FOR UPDATE`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tenantID.String()))
}

func TestIsTaken(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("margo-partner").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := s.IsTaken(context.Background(), "margo-partner")
	require.NoError(t, err)
	assert.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTenant_Success(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	tenant := sampleTenant()
	cats := []model.Category{
		{Key: "weight", Name: "Weight", Position: 0},
		{Key: "gender", Name: "Gender", Position: 1},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO subdomains`).
		WithArgs(tenant.Subdomain, tenant.ID, tenant.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO tenants`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(tenant.ID, "weight", "Weight", "", "", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(tenant.ID, "gender", "Gender", "", "", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.CreateTenant(context.Background(), tenant, cats))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTenant_SubdomainTaken(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	tenant := sampleTenant()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO subdomains`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	err := s.CreateTenant(context.Background(), tenant, nil)
	assert.ErrorIs(t, err, apperr.ErrSubdomainTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenant(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	tenant := sampleTenant()
	rows := sqlmock.NewRows([]string{
		"id", "subdomain", "site_name", "parent_names", "description", "primary_color",
		"secondary_color", "logo_url", "slideshow_images", "due_date", "payment_handle",
		"api_base_url", "winner_percentage", "created_at", "updated_at",
	}).AddRow(
		tenant.ID.String(), tenant.Subdomain, tenant.SiteName, "", "", tenant.PrimaryColor,
		"", "", []byte("{a.jpg,b.jpg}"), tenant.DueDate, "@margo", "", "0.5000",
		tenant.CreatedAt, tenant.UpdatedAt,
	)
	mock.ExpectQuery(`FROM tenants WHERE id = \$1`).
		WithArgs(tenant.ID).
		WillReturnRows(rows)

	got, err := s.GetTenant(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.SlideshowImages)
	assert.True(t, got.WinnerPercentage.Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(t, tenant.DueDate, got.DueDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenant_NotFound(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`FROM tenants WHERE id`).WithArgs(id).WillReturnError(sql.ErrNoRows)

	got, err := s.GetTenant(context.Background(), id)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperr.ErrTenantNotFound)
}

func TestDeleteTenant_RefusedWithBets(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	expectLock(mock, id)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bets`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	err := s.DeleteTenant(context.Background(), id)
	assert.ErrorIs(t, err, apperr.ErrTenantHasBets)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTenant_KeepsSubdomainClaim(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	expectLock(mock, id)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bets`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM tenants WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteTenant(context.Background(), id))
	// Any statement touching subdomains would be an unexpected call.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceCategories_InUse(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	expectLock(mock, id)
	mock.ExpectQuery(`SELECT DISTINCT category_key FROM bets`).
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"category_key"}).AddRow("hair_color"))
	mock.ExpectRollback()

	err := s.ReplaceCategories(context.Background(), id, []model.Category{{Key: "weight", Name: "Weight"}})
	assert.ErrorIs(t, err, apperr.ErrCategoryInUse)
	assert.Contains(t, err.Error(), "hair_color")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceCategories_UsageScanError(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	expectLock(mock, id)
	mock.ExpectQuery(`SELECT DISTINCT category_key FROM bets`).
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"category_key"}).
			AddRow("hair_color").
			RowError(0, errors.New("connection reset")))
	mock.ExpectRollback()

	err := s.ReplaceCategories(context.Background(), id, []model.Category{{Key: "weight", Name: "Weight"}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrCategoryInUse)
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTenantTx_RollsBackOnError(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	expectLock(mock, id)
	mock.ExpectExec(`INSERT INTO bets`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("category check failed")
	err := s.InTenantTx(context.Background(), id, func(tx LedgerTx) error {
		bet := model.Bet{ID: uuid.New(), CategoryKey: "weight", Amount: decimal.NewFromInt(5), Status: model.BetUnvalidated}
		if err := tx.InsertBets(context.Background(), []model.Bet{bet}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTenantTx_UnknownTenant(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(id).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	called := false
	err := s.InTenantTx(context.Background(), id, func(LedgerTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, apperr.ErrTenantNotFound)
	assert.False(t, called)
}

func TestMarkValidated(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	at := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	expectLock(mock, id)
	mock.ExpectExec(`UPDATE bets`).
		WithArgs(id, sqlmock.AnyArg(), "validated", "admin@margo", at, "unvalidated").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var updated int
	err := s.InTenantTx(context.Background(), id, func(tx LedgerTx) error {
		var err error
		updated, err = tx.MarkValidated(context.Background(), []uuid.UUID{uuid.New()}, "admin@margo", at)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBets_ValidatedFilter(t *testing.T) {
	db, mock, s := setupMockDB(t)
	defer db.Close()

	tenantID := uuid.New()
	betID := uuid.New()
	created := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	validatedAt := created.Add(time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "bettor_name", "bettor_email", "bettor_phone", "category_key",
		"value", "amount", "status", "payment_ref", "created_at", "validated_by", "validated_at",
	}).AddRow(
		betID.String(), tenantID.String(), "Ana", "ana@example.com", "", "weight",
		"3.4kg", "10.00", "validated", "venmo #123", created, "admin", validatedAt,
	)
	mock.ExpectQuery(`FROM bets WHERE tenant_id = \$1 AND status = \$2 ORDER BY created_at, id`).
		WithArgs(tenantID, "validated").
		WillReturnRows(rows)

	yes := true
	bets, err := s.ListBets(context.Background(), tenantID, model.BetFilter{Validated: &yes})
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, betID, bets[0].ID)
	assert.True(t, bets[0].IsValidated())
	assert.True(t, bets[0].Amount.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, bets[0].ValidatedBy)
	assert.Equal(t, "admin", *bets[0].ValidatedBy)
	assert.Equal(t, validatedAt, *bets[0].ValidatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
