// internal/manager/tenant_manager.go
package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"babypool/internal/apperr"
	"babypool/internal/category"
	"babypool/internal/metrics"
	"babypool/internal/model"
	"babypool/internal/site"
	"babypool/internal/subdomain"
)

type TenantStore interface {
	CreateTenant(ctx context.Context, t model.Tenant, categories []model.Category) error
	UpdateTenant(ctx context.Context, t model.Tenant) error
	GetTenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	ListTenants(ctx context.Context) ([]model.Tenant, error)
	DeleteTenant(ctx context.Context, id uuid.UUID) error
}

// Publisher ships rendered bundles and owns the per-tenant event queues.
type Publisher interface {
	PublishBundle(b *site.Bundle) error
	DeclareTenantQueue(tenantID string) error
	DeleteTenantQueue(tenantID string) error
}

// TenantManager provisions tenant sites: it allocates the subdomain, stores
// the config and categories, renders the template and hands the bundle to
// the build pipeline.
type TenantManager struct {
	store     TenantStore
	allocator *subdomain.Allocator
	templates *site.TemplateSet
	publisher Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewTenantManager(
	store TenantStore,
	allocator *subdomain.Allocator,
	templates *site.TemplateSet,
	publisher Publisher,
	logger *zap.Logger,
) *TenantManager {
	return &TenantManager{
		store:     store,
		allocator: allocator,
		templates: templates,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		logger:    logger,
	}
}

// percentageScale matches the winner_percentage column (NUMERIC(5,4)).
const percentageScale = 4

func winnerPercentage(p *decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return model.DefaultWinnerPercentage, nil
	}
	if !p.IsPositive() || p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%w: winner_percentage must be in (0, 1], got %s", apperr.ErrInvalidConfig, p)
	}
	if !p.Equal(p.Round(percentageScale)) {
		return decimal.Zero, fmt.Errorf("%w: winner_percentage allows at most %d decimals, got %s", apperr.ErrInvalidConfig, percentageScale, p)
	}
	return *p, nil
}

// applyRequest copies the replaceable config fields onto t.
func applyRequest(t *model.Tenant, req model.TenantRequest) error {
	pct, err := winnerPercentage(req.WinnerPercentage)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.SiteName) == "" {
		return fmt.Errorf("%w: site_name is required", apperr.ErrInvalidConfig)
	}

	t.SiteName = strings.TrimSpace(req.SiteName)
	t.ParentNames = strings.TrimSpace(req.ParentNames)
	t.Description = strings.TrimSpace(req.Description)
	t.PrimaryColor = req.PrimaryColor
	t.SecondaryColor = req.SecondaryColor
	t.LogoURL = req.LogoURL
	t.SlideshowImages = append([]string(nil), req.SlideshowImages...)
	t.DueDate = req.DueDate
	t.PaymentHandle = strings.TrimSpace(req.PaymentHandle)
	t.APIBaseURL = req.APIBaseURL
	t.WinnerPercentage = pct
	return nil
}

// Provision creates a tenant. The subdomain is claimed only after the site
// renders, so a bad config never burns a name.
func (tm *TenantManager) Provision(ctx context.Context, req model.TenantRequest) (*model.Tenant, *site.Bundle, error) {
	name := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if name == "" {
		name = subdomain.Propose(req.SiteName)
	}
	if err := tm.allocator.Check(ctx, name); err != nil {
		return nil, nil, err
	}

	cats := req.Categories
	if len(cats) == 0 {
		cats = category.DefaultCategories()
	}
	cats, err := category.Normalize(cats)
	if err != nil {
		return nil, nil, err
	}

	now := tm.now()
	tenant := model.Tenant{
		ID:        uuid.New(),
		Subdomain: name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyRequest(&tenant, req); err != nil {
		return nil, nil, err
	}

	bundle, err := tm.templates.RenderBundle(tenant)
	if err != nil {
		return nil, nil, err
	}

	if err := tm.store.CreateTenant(ctx, tenant, cats); err != nil {
		return nil, nil, err
	}

	if tm.publisher != nil {
		if err := tm.publisher.DeclareTenantQueue(tenant.ID.String()); err != nil {
			tm.logger.Warn("failed to declare tenant queue", zap.String("tenant", tenant.ID.String()), zap.Error(err))
		}
	}
	tm.ship(bundle)

	tm.logger.Info("tenant provisioned",
		zap.String("tenant", tenant.ID.String()),
		zap.String("subdomain", tenant.Subdomain),
		zap.String("checksum", bundle.Checksum))
	return &tenant, bundle, nil
}

// Reprovision replaces the tenant's config. The id and subdomain never
// change; a request carrying categories is rejected since those are
// managed by the category registry.
func (tm *TenantManager) Reprovision(ctx context.Context, id uuid.UUID, req model.TenantRequest) (*model.Tenant, *site.Bundle, error) {
	current, err := tm.store.GetTenant(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s := strings.ToLower(strings.TrimSpace(req.Subdomain)); s != "" && s != current.Subdomain {
		return nil, nil, fmt.Errorf("%w: subdomain %q cannot be changed", apperr.ErrInvalidSubdomain, current.Subdomain)
	}
	if len(req.Categories) > 0 {
		return nil, nil, fmt.Errorf("%w: categories are replaced through PUT /tenants/{id}/categories", apperr.ErrInvalidConfig)
	}

	updated := model.Tenant{
		ID:        current.ID,
		Subdomain: current.Subdomain,
		CreatedAt: current.CreatedAt,
		UpdatedAt: tm.now(),
	}
	if err := applyRequest(&updated, req); err != nil {
		return nil, nil, err
	}

	bundle, err := tm.templates.RenderBundle(updated)
	if err != nil {
		return nil, nil, err
	}
	if err := tm.store.UpdateTenant(ctx, updated); err != nil {
		return nil, nil, err
	}
	tm.ship(bundle)

	tm.logger.Info("tenant reprovisioned",
		zap.String("tenant", id.String()),
		zap.String("checksum", bundle.Checksum))
	return &updated, bundle, nil
}

func (tm *TenantManager) Tenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	return tm.store.GetTenant(ctx, id)
}

// Render returns the tenant's current bundle without publishing it.
func (tm *TenantManager) Render(ctx context.Context, id uuid.UUID) (*site.Bundle, error) {
	t, err := tm.store.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	return tm.templates.RenderBundle(*t)
}

// RemoveTenant deletes a tenant that has no bets. The subdomain stays
// claimed.
func (tm *TenantManager) RemoveTenant(ctx context.Context, id uuid.UUID) error {
	if err := tm.store.DeleteTenant(ctx, id); err != nil {
		return err
	}
	if tm.publisher != nil {
		if err := tm.publisher.DeleteTenantQueue(id.String()); err != nil {
			tm.logger.Warn("failed to delete tenant queue", zap.String("tenant", id.String()), zap.Error(err))
		}
	}
	tm.logger.Info("tenant removed", zap.String("tenant", id.String()))
	return nil
}

// RecoverTenants re-declares event queues for every stored tenant.
func (tm *TenantManager) RecoverTenants(ctx context.Context) (int, error) {
	tenants, err := tm.store.ListTenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load tenants: %w", err)
	}
	if tm.publisher == nil {
		return len(tenants), nil
	}

	for _, t := range tenants {
		if err := tm.publisher.DeclareTenantQueue(t.ID.String()); err != nil {
			tm.logger.Warn("failed to recover tenant", zap.String("tenant", t.ID.String()), zap.Error(err))
			continue
		}
		tm.logger.Debug("recovered tenant", zap.String("tenant", t.ID.String()))
	}
	return len(tenants), nil
}

func (tm *TenantManager) ship(b *site.Bundle) {
	metrics.SitesProvisioned.Inc()
	if tm.publisher == nil {
		return
	}
	if err := tm.publisher.PublishBundle(b); err != nil {
		tm.logger.Error("failed to publish site bundle",
			zap.String("tenant", b.TenantID.String()),
			zap.Error(err))
	}
}
