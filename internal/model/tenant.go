// internal/model/tenant.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueDateLayout is the date-only form accepted for due_date.
const DueDateLayout = "2006-01-02"

// DefaultWinnerPercentage is the share of the pot reported as the winner payout
// when a tenant does not configure one.
var DefaultWinnerPercentage = decimal.NewFromFloat(0.5)

type Tenant struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Subdomain        string          `json:"subdomain" db:"subdomain"`
	SiteName         string          `json:"site_name" db:"site_name"`
	ParentNames      string          `json:"parent_names" db:"parent_names"`
	Description      string          `json:"description" db:"description"`
	PrimaryColor     string          `json:"primary_color" db:"primary_color"`
	SecondaryColor   string          `json:"secondary_color" db:"secondary_color"`
	LogoURL          string          `json:"logo_url" db:"logo_url"`
	SlideshowImages  []string        `json:"slideshow_images" db:"slideshow_images"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	PaymentHandle    string          `json:"payment_handle" db:"payment_handle"`
	APIBaseURL       string          `json:"api_base_url" db:"api_base_url"`
	WinnerPercentage decimal.Decimal `json:"winner_percentage" swaggertype:"string" db:"winner_percentage"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// TenantRequest is the provisioning input. Subdomain may be empty, in which
// case one is proposed from SiteName.
type TenantRequest struct {
	Subdomain        string           `json:"subdomain"`
	SiteName         string           `json:"site_name"`
	ParentNames      string           `json:"parent_names"`
	Description      string           `json:"description"`
	PrimaryColor     string           `json:"primary_color"`
	SecondaryColor   string           `json:"secondary_color"`
	LogoURL          string           `json:"logo_url"`
	SlideshowImages  []string         `json:"slideshow_images"`
	DueDate          time.Time        `json:"due_date" swaggertype:"string" example:"2026-12-24"`
	PaymentHandle    string           `json:"payment_handle"`
	APIBaseURL       string           `json:"api_base_url"`
	WinnerPercentage *decimal.Decimal `json:"winner_percentage,omitempty" swaggertype:"string"`
	Categories       []Category       `json:"categories,omitempty"`
}

// UnmarshalJSON accepts due_date as a plain date ("2026-12-24") or an
// RFC 3339 timestamp.
func (r *TenantRequest) UnmarshalJSON(data []byte) error {
	type plain TenantRequest
	aux := struct {
		*plain
		DueDate *string `json:"due_date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.DueDate = time.Time{}
	if aux.DueDate == nil || *aux.DueDate == "" {
		return nil
	}
	if d, err := time.Parse(DueDateLayout, *aux.DueDate); err == nil {
		r.DueDate = d
		return nil
	}
	d, err := time.Parse(time.RFC3339, *aux.DueDate)
	if err != nil {
		return fmt.Errorf("due_date: want YYYY-MM-DD or RFC 3339, got %q", *aux.DueDate)
	}
	r.DueDate = d
	return nil
}
