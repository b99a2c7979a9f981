package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"babypool/internal/model"
	"babypool/internal/site"
	"babypool/internal/subdomain"
)

type Provisioner interface {
	Provision(ctx context.Context, req model.TenantRequest) (*model.Tenant, *site.Bundle, error)
	Reprovision(ctx context.Context, id uuid.UUID, req model.TenantRequest) (*model.Tenant, *site.Bundle, error)
	Tenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	Render(ctx context.Context, id uuid.UUID) (*site.Bundle, error)
	RemoveTenant(ctx context.Context, id uuid.UUID) error
}

type Ledger interface {
	PlaceBets(ctx context.Context, tenantID uuid.UUID, bettor model.Bettor, reqs []model.BetRequest) ([]model.Bet, error)
	ListBets(ctx context.Context, tenantID uuid.UUID, filter model.BetFilter) ([]model.Bet, error)
	ValidateBets(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, validatorID string) (*model.ValidationResult, error)
}

type Categories interface {
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error)
	Replace(ctx context.Context, tenantID uuid.UUID, categories []model.Category) ([]model.Category, error)
}

type Stats interface {
	ComputeStats(ctx context.Context, tenantID uuid.UUID) (*model.SettlementSnapshot, error)
}

type API struct {
	Tenants         Provisioner
	Ledger          Ledger
	Categories      Categories
	Stats           Stats
	Allocator       *subdomain.Allocator
	ProvisioningKey string
	TokenTTL        time.Duration
	logger          *zap.Logger
}

func NewAPI(
	tenants Provisioner,
	ledger Ledger,
	categories Categories,
	stats Stats,
	allocator *subdomain.Allocator,
	provisioningKey string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *API {
	return &API{
		Tenants:         tenants,
		Ledger:          ledger,
		Categories:      categories,
		Stats:           stats,
		Allocator:       allocator,
		ProvisioningKey: provisioningKey,
		TokenTTL:        tokenTTL,
		logger:          logger,
	}
}
