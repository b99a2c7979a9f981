// Package ledger records bets and their manual payment validation.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"babypool/internal/apperr"
	"babypool/internal/category"
	"babypool/internal/metrics"
	"babypool/internal/model"
	"babypool/internal/storage"
)

var validate = validator.New()

// maxAmount is the largest value the amount column (NUMERIC(12,2)) holds.
var maxAmount = decimal.RequireFromString("9999999999.99")

type Store interface {
	InTenantTx(ctx context.Context, tenantID uuid.UUID, fn func(storage.LedgerTx) error) error
	ListBets(ctx context.Context, tenantID uuid.UUID, filter model.BetFilter) ([]model.Bet, error)
}

// EventPublisher receives committed ledger changes. Publishing is best
// effort; the ledger is the source of truth.
type EventPublisher interface {
	PublishLedgerEvent(ev model.LedgerEvent) error
}

type Ledger struct {
	store  Store
	events EventPublisher
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Ledger)

func WithEvents(p EventPublisher) Option {
	return func(l *Ledger) { l.events = p }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store Store, logger *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func validateBettor(b model.Bettor) (model.Bettor, error) {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	b.Phone = strings.TrimSpace(b.Phone)
	if err := validate.Struct(b); err != nil {
		return b, fmt.Errorf("%w: %v", apperr.ErrInvalidBettor, err)
	}
	return b, nil
}

func validAmount(a decimal.Decimal) bool {
	return a.IsPositive() && a.Equal(a.Round(2)) && a.LessThanOrEqual(maxAmount)
}

// PlaceBets commits the whole batch or nothing. Category keys are checked
// against the tenant's set inside the same transaction as the insert.
func (l *Ledger) PlaceBets(ctx context.Context, tenantID uuid.UUID, bettor model.Bettor, reqs []model.BetRequest) ([]model.Bet, error) {
	if len(reqs) == 0 {
		return nil, apperr.ErrEmptyBatch
	}
	bettor, err := validateBettor(bettor)
	if err != nil {
		return nil, err
	}
	for i, r := range reqs {
		if !validAmount(r.Amount) {
			return nil, &apperr.InvalidAmountError{Index: i, Amount: r.Amount}
		}
	}

	var bets []model.Bet
	err = l.store.InTenantTx(ctx, tenantID, func(tx storage.LedgerTx) error {
		cats, err := tx.Categories(ctx)
		if err != nil {
			return err
		}
		for _, r := range reqs {
			if !category.Contains(cats, r.CategoryKey) {
				return &apperr.UnknownCategoryError{Key: r.CategoryKey}
			}
		}

		now := l.now()
		batch := make([]model.Bet, 0, len(reqs))
		for _, r := range reqs {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate bet id: %w", err)
			}
			batch = append(batch, model.Bet{
				ID:          id,
				TenantID:    tenantID,
				BettorName:  bettor.Name,
				BettorEmail: bettor.Email,
				BettorPhone: bettor.Phone,
				CategoryKey: r.CategoryKey,
				Value:       strings.TrimSpace(r.Value),
				Amount:      r.Amount,
				Status:      model.BetUnvalidated,
				PaymentRef:  strings.TrimSpace(r.PaymentRef),
				CreatedAt:   now,
			})
		}
		if err := tx.InsertBets(ctx, batch); err != nil {
			return err
		}
		bets = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BetsPlaced.WithLabelValues(tenantID.String()).Add(float64(len(bets)))
	l.logger.Info("bets placed",
		zap.String("tenant", tenantID.String()),
		zap.Int("count", len(bets)),
		zap.String("bettor", bettor.Email))
	l.publish(model.EventBetsPlaced, tenantID, betIDs(bets), bettor.Email)
	return bets, nil
}

// ListBets returns bets oldest first.
func (l *Ledger) ListBets(ctx context.Context, tenantID uuid.UUID, filter model.BetFilter) ([]model.Bet, error) {
	return l.store.ListBets(ctx, tenantID, filter)
}

// ValidateBets marks unvalidated bets as paid. Already validated and unknown
// ids are reported as skipped; resubmitting the same ids updates nothing.
func (l *Ledger) ValidateBets(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, validatorID string) (*model.ValidationResult, error) {
	validatorID = strings.TrimSpace(validatorID)
	if validatorID == "" {
		return nil, apperr.ErrMissingValidator
	}
	ids = dedupe(ids)

	result := &model.ValidationResult{Skipped: []model.SkippedBet{}}
	var updatedIDs []uuid.UUID
	err := l.store.InTenantTx(ctx, tenantID, func(tx storage.LedgerTx) error {
		existing, err := tx.BetsByID(ctx, ids)
		if err != nil {
			return err
		}

		var pending []uuid.UUID
		for _, id := range ids {
			b, ok := existing[id]
			switch {
			case !ok:
				result.Skipped = append(result.Skipped, model.SkippedBet{ID: id, Reason: model.SkipNotFound})
			case b.IsValidated():
				result.Skipped = append(result.Skipped, model.SkippedBet{ID: id, Reason: model.SkipAlreadyValidated})
			default:
				pending = append(pending, id)
			}
		}
		if len(pending) == 0 {
			return nil
		}

		n, err := tx.MarkValidated(ctx, pending, validatorID, l.now())
		if err != nil {
			return err
		}
		result.Updated = n
		updatedIDs = pending
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, s := range result.Skipped {
		if s.Reason == model.SkipNotFound {
			l.logger.Warn("validation skipped unknown bet",
				zap.String("tenant", tenantID.String()),
				zap.String("bet", s.ID.String()),
				zap.Error(apperr.ErrBetNotFound))
		}
	}
	if result.Updated > 0 {
		metrics.BetsValidated.WithLabelValues(tenantID.String()).Add(float64(result.Updated))
		l.publish(model.EventBetsValidated, tenantID, updatedIDs, validatorID)
	}
	l.logger.Info("bets validated",
		zap.String("tenant", tenantID.String()),
		zap.String("validator", validatorID),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (l *Ledger) publish(eventType string, tenantID uuid.UUID, ids []uuid.UUID, actor string) {
	if l.events == nil {
		return
	}
	ev := model.LedgerEvent{Type: eventType, TenantID: tenantID, BetIDs: ids, Actor: actor, At: l.now()}
	if err := l.events.PublishLedgerEvent(ev); err != nil {
		l.logger.Warn("failed to publish ledger event",
			zap.String("type", eventType),
			zap.String("tenant", tenantID.String()),
			zap.Error(err))
	}
}

func betIDs(bets []model.Bet) []uuid.UUID {
	out := make([]uuid.UUID, len(bets))
	for i, b := range bets {
		out[i] = b.ID
	}
	return out
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
