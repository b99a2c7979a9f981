// internal/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error codes surfaced to API clients.
const (
	CodeInvalidSubdomain    = "INVALID_SUBDOMAIN"
	CodeSubdomainReserved   = "SUBDOMAIN_RESERVED"
	CodeSubdomainTaken      = "SUBDOMAIN_TAKEN"
	CodeRegistryUnavailable = "REGISTRY_UNAVAILABLE"
	CodeMissingConfigField  = "MISSING_CONFIG_FIELD"
	CodeInvalidColorFormat  = "INVALID_COLOR_FORMAT"
	CodeUnknownCategory     = "UNKNOWN_CATEGORY"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidBettor       = "INVALID_BETTOR"
	CodeInvalidCategory     = "INVALID_CATEGORY"
	CodeCategoryInUse       = "CATEGORY_IN_USE"
	CodeBetNotFound         = "BET_NOT_FOUND"
	CodeTenantNotFound      = "TENANT_NOT_FOUND"
	CodeTenantHasBets       = "TENANT_HAS_BETS"
	CodeEmptyBatch          = "EMPTY_BATCH"
	CodeMissingValidator    = "MISSING_VALIDATOR"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeInternal            = "INTERNAL_ERROR"
)

// Sentinel errors. Typed errors below unwrap to the matching sentinel so
// callers can use errors.Is without caring about the detail.
var (
	ErrInvalidSubdomain    = errors.New("invalid subdomain")
	ErrSubdomainReserved   = errors.New("subdomain is reserved")
	ErrSubdomainTaken      = errors.New("subdomain already taken")
	ErrRegistryUnavailable = errors.New("tenant registry unavailable")
	ErrMissingConfigField  = errors.New("missing config field")
	ErrInvalidColorFormat  = errors.New("invalid color format")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidBettor       = errors.New("invalid bettor")
	ErrInvalidCategory     = errors.New("invalid category definition")
	ErrCategoryInUse       = errors.New("category referenced by existing bets")
	ErrBetNotFound         = errors.New("bet not found")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrTenantHasBets       = errors.New("tenant has bets")
	ErrEmptyBatch          = errors.New("empty bet batch")
	ErrMissingValidator    = errors.New("validator identity required")
	ErrInvalidConfig       = errors.New("invalid tenant config")
)

var codes = map[error]string{
	ErrInvalidSubdomain:    CodeInvalidSubdomain,
	ErrSubdomainReserved:   CodeSubdomainReserved,
	ErrSubdomainTaken:      CodeSubdomainTaken,
	ErrRegistryUnavailable: CodeRegistryUnavailable,
	ErrMissingConfigField:  CodeMissingConfigField,
	ErrInvalidColorFormat:  CodeInvalidColorFormat,
	ErrUnknownCategory:     CodeUnknownCategory,
	ErrInvalidAmount:       CodeInvalidAmount,
	ErrInvalidBettor:       CodeInvalidBettor,
	ErrInvalidCategory:     CodeInvalidCategory,
	ErrCategoryInUse:       CodeCategoryInUse,
	ErrBetNotFound:         CodeBetNotFound,
	ErrTenantNotFound:      CodeTenantNotFound,
	ErrTenantHasBets:       CodeTenantHasBets,
	ErrEmptyBatch:          CodeEmptyBatch,
	ErrMissingValidator:    CodeMissingValidator,
	ErrInvalidConfig:       CodeInvalidConfig,
}

// Code returns the client-facing code for err, or CodeInternal.
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeInternal
}

// MissingConfigFieldError names the template placeholder that had no value.
type MissingConfigFieldError struct {
	Field string
}

func (e *MissingConfigFieldError) Error() string {
	return fmt.Sprintf("missing config field %q", e.Field)
}

func (e *MissingConfigFieldError) Unwrap() error { return ErrMissingConfigField }

// InvalidColorFormatError carries the offending config field and value.
type InvalidColorFormatError struct {
	Field string
	Value string
}

func (e *InvalidColorFormatError) Error() string {
	return fmt.Sprintf("invalid color format for %s: %q (want #RRGGBB)", e.Field, e.Value)
}

func (e *InvalidColorFormatError) Unwrap() error { return ErrInvalidColorFormat }

// UnknownCategoryError is returned when a bet references a key the tenant
// does not have.
type UnknownCategoryError struct {
	Key string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Key)
}

func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }

// InvalidAmountError reports an unusable bet amount at a batch index.
type InvalidAmountError struct {
	Index  int
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("bet %d: amount must be positive with at most two decimals, got %s", e.Index, e.Amount.String())
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }
