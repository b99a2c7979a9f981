// internal/model/bet.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BetStatus string

const (
	BetUnvalidated BetStatus = "unvalidated"
	BetValidated   BetStatus = "validated"
)

// Bet is a single paid guess. Only the validation fields ever change, and
// only once.
type Bet struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TenantID    uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	BettorName  string          `json:"bettor_name" db:"bettor_name"`
	BettorEmail string          `json:"email" db:"bettor_email"`
	BettorPhone string          `json:"phone,omitempty" db:"bettor_phone"`
	CategoryKey string          `json:"category_key" db:"category_key"`
	Value       string          `json:"bet_value" db:"value"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" db:"amount"`
	Status      BetStatus       `json:"status" db:"status"`
	PaymentRef  string          `json:"payment_ref,omitempty" db:"payment_ref"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ValidatedBy *string         `json:"validated_by,omitempty" db:"validated_by"`
	ValidatedAt *time.Time      `json:"validated_at,omitempty" db:"validated_at"`
}

func (b Bet) IsValidated() bool {
	return b.Status == BetValidated
}

type Bettor struct {
	Name  string `json:"bettor_name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

type BetRequest struct {
	CategoryKey string          `json:"category_key"`
	Value       string          `json:"bet_value"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	PaymentRef  string          `json:"payment_ref,omitempty"`
}

// BetFilter narrows ListBets. A nil Validated returns every bet.
type BetFilter struct {
	Validated *bool
}

func (f BetFilter) Match(b Bet) bool {
	if f.Validated == nil {
		return true
	}
	return *f.Validated == b.IsValidated()
}

const (
	SkipAlreadyValidated = "already_validated"
	SkipNotFound         = "not_found"
)

type SkippedBet struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

type ValidationResult struct {
	Updated int          `json:"updated"`
	Skipped []SkippedBet `json:"skipped"`
}
