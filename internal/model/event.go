package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBetsPlaced    = "bets.placed"
	EventBetsValidated = "bets.validated"
)

// LedgerEvent is published after a ledger mutation commits.
type LedgerEvent struct {
	Type     string      `json:"type"`
	TenantID uuid.UUID   `json:"tenant_id"`
	BetIDs   []uuid.UUID `json:"bet_ids"`
	Actor    string      `json:"actor,omitempty"`
	At       time.Time   `json:"at"`
}
