package category

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"babypool/internal/apperr"
	"babypool/internal/model"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,40}$`)

type Store interface {
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error)
	ReplaceCategories(ctx context.Context, tenantID uuid.UUID, categories []model.Category) error
}

// Registry is the per-tenant set of wager categories. The set is written at
// provisioning and replaced whole by admins; it is never edited in place.
type Registry struct {
	store  Store
	logger *zap.Logger
}

func NewRegistry(store Store, logger *zap.Logger) *Registry {
	return &Registry{store: store, logger: logger}
}

// DefaultCategories is the set used when a customer supplies none.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Key: "birth_date", Name: "Birth date", Description: "The day the baby arrives", Placeholder: "YYYY-MM-DD"},
		{Key: "birth_time", Name: "Birth time", Description: "Time of birth, 24h clock", Placeholder: "HH:MM"},
		{Key: "weight", Name: "Weight", Description: "Birth weight", Placeholder: "e.g. 3.4 kg"},
		{Key: "length", Name: "Length", Description: "Length at birth", Placeholder: "e.g. 51 cm"},
		{Key: "gender", Name: "Gender", Description: "Boy or girl?", Placeholder: "boy / girl"},
		{Key: "hair_color", Name: "Hair colour", Description: "Hair colour at birth", Placeholder: "e.g. dark brown"},
		{Key: "eye_color", Name: "Eye colour", Description: "Eye colour at birth", Placeholder: "e.g. blue"},
		{Key: "name_initial", Name: "First initial", Description: "First letter of the baby's name", Placeholder: "A-Z"},
	}
}

// Normalize validates a category set and assigns positions in slice order.
func Normalize(categories []model.Category) ([]model.Category, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", apperr.ErrInvalidCategory)
	}

	seen := make(map[string]bool, len(categories))
	out := make([]model.Category, len(categories))
	for i, c := range categories {
		c.Key = strings.TrimSpace(c.Key)
		c.Name = strings.TrimSpace(c.Name)
		if !keyPattern.MatchString(c.Key) {
			return nil, fmt.Errorf("%w: key %q must match %s", apperr.ErrInvalidCategory, c.Key, keyPattern)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("%w: category %q has no name", apperr.ErrInvalidCategory, c.Key)
		}
		if seen[c.Key] {
			return nil, fmt.Errorf("%w: duplicate key %q", apperr.ErrInvalidCategory, c.Key)
		}
		seen[c.Key] = true
		c.Position = i
		out[i] = c
	}
	return out, nil
}

// ListCategories returns categories in display order.
func (r *Registry) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error) {
	return r.store.ListCategories(ctx, tenantID)
}

func (r *Registry) ValidateCategoryKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	cats, err := r.store.ListCategories(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return Contains(cats, key), nil
}

// Replace swaps the tenant's whole set.
func (r *Registry) Replace(ctx context.Context, tenantID uuid.UUID, categories []model.Category) ([]model.Category, error) {
	normalized, err := Normalize(categories)
	if err != nil {
		return nil, err
	}
	if err := r.store.ReplaceCategories(ctx, tenantID, normalized); err != nil {
		return nil, err
	}
	r.logger.Info("categories replaced",
		zap.String("tenant", tenantID.String()),
		zap.Int("count", len(normalized)))
	return normalized, nil
}

func Contains(categories []model.Category, key string) bool {
	for _, c := range categories {
		if c.Key == key {
			return true
		}
	}
	return false
}
