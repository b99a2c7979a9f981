package model

import "github.com/shopspring/decimal"

type CategoryStat struct {
	CategoryKey string          `json:"category_key"`
	Name        string          `json:"name"`
	Count       int             `json:"count"`
	Total       decimal.Decimal `json:"total" swaggertype:"string"`
}

// SettlementSnapshot is computed on read and never stored.
type SettlementSnapshot struct {
	Pot              decimal.Decimal `json:"pot" swaggertype:"string"`
	PerCategory      []CategoryStat  `json:"per_category"`
	WinnerPercentage decimal.Decimal `json:"winner_percentage" swaggertype:"string"`
	WinnerPayout     decimal.Decimal `json:"winner_payout" swaggertype:"string"`
	ValidatedCount   int             `json:"validated_count"`
	PendingCount     int             `json:"pending_count"`
	PendingTotal     decimal.Decimal `json:"pending_total" swaggertype:"string"`
}
