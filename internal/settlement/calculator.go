// Package settlement derives pot and payout figures from the ledger. The
// figures are for reporting; payouts are made by hand outside the system.
package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"babypool/internal/model"
)

type Store interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error)
	ListBets(ctx context.Context, tenantID uuid.UUID, filter model.BetFilter) ([]model.Bet, error)
}

type Calculator struct {
	store Store
}

func NewCalculator(store Store) *Calculator {
	return &Calculator{store: store}
}

// Compute aggregates validated bets. Categories without a validated bet are
// left out of PerCategory, which follows the order of categories. Bets whose
// category is no longer registered still count toward the pot and are
// listed after the registered ones.
func Compute(categories []model.Category, bets []model.Bet, winnerPct decimal.Decimal) model.SettlementSnapshot {
	snap := model.SettlementSnapshot{
		Pot:              decimal.Zero,
		PerCategory:      []model.CategoryStat{},
		WinnerPercentage: winnerPct,
		PendingTotal:     decimal.Zero,
	}

	stats := make(map[string]*model.CategoryStat)
	var extra []string
	for _, b := range bets {
		if !b.IsValidated() {
			snap.PendingCount++
			snap.PendingTotal = snap.PendingTotal.Add(b.Amount)
			continue
		}
		snap.ValidatedCount++
		snap.Pot = snap.Pot.Add(b.Amount)

		s, ok := stats[b.CategoryKey]
		if !ok {
			s = &model.CategoryStat{CategoryKey: b.CategoryKey, Total: decimal.Zero}
			stats[b.CategoryKey] = s
			extra = append(extra, b.CategoryKey)
		}
		s.Count++
		s.Total = s.Total.Add(b.Amount)
	}

	for _, c := range categories {
		if s, ok := stats[c.Key]; ok {
			s.Name = c.Name
			snap.PerCategory = append(snap.PerCategory, *s)
			delete(stats, c.Key)
		}
	}
	for _, key := range extra {
		if s, ok := stats[key]; ok {
			snap.PerCategory = append(snap.PerCategory, *s)
		}
	}

	snap.WinnerPayout = snap.Pot.Mul(winnerPct).Round(2)
	return snap
}

// ComputeStats reads the tenant's ledger and returns its settlement figures.
func (c *Calculator) ComputeStats(ctx context.Context, tenantID uuid.UUID) (*model.SettlementSnapshot, error) {
	tenant, err := c.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cats, err := c.store.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	bets, err := c.store.ListBets(ctx, tenantID, model.BetFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load bets: %w", err)
	}

	pct := tenant.WinnerPercentage
	if pct.IsZero() {
		pct = model.DefaultWinnerPercentage
	}
	snap := Compute(cats, bets, pct)
	return &snap, nil
}
