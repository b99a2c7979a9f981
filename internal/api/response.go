package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"babypool/internal/apperr"
	"babypool/internal/auth"
)

const (
	codeBadRequest   = "BAD_REQUEST"
	codeUnauthorized = auth.CodeUnauthorized
	codeForbidden    = "FORBIDDEN"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

var codeToHTTPStatus = map[string]int{
	codeBadRequest:                 http.StatusBadRequest,
	codeUnauthorized:               http.StatusUnauthorized,
	codeForbidden:                  http.StatusForbidden,
	apperr.CodeInvalidSubdomain:    http.StatusBadRequest,
	apperr.CodeSubdomainReserved:   http.StatusConflict,
	apperr.CodeSubdomainTaken:      http.StatusConflict,
	apperr.CodeRegistryUnavailable: http.StatusServiceUnavailable,
	apperr.CodeMissingConfigField:  http.StatusUnprocessableEntity,
	apperr.CodeInvalidColorFormat:  http.StatusUnprocessableEntity,
	apperr.CodeUnknownCategory:     http.StatusBadRequest,
	apperr.CodeInvalidAmount:       http.StatusBadRequest,
	apperr.CodeInvalidBettor:       http.StatusBadRequest,
	apperr.CodeInvalidCategory:     http.StatusBadRequest,
	apperr.CodeCategoryInUse:       http.StatusConflict,
	apperr.CodeBetNotFound:         http.StatusNotFound,
	apperr.CodeTenantNotFound:      http.StatusNotFound,
	apperr.CodeTenantHasBets:       http.StatusConflict,
	apperr.CodeEmptyBatch:          http.StatusBadRequest,
	apperr.CodeMissingValidator:    http.StatusBadRequest,
	apperr.CodeInvalidConfig:       http.StatusBadRequest,
	apperr.CodeInternal:            http.StatusInternalServerError,
}

func httpStatus(code string) int {
	if status, ok := codeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, code, message string) {
	writeJSON(w, httpStatus(code), map[string]errorBody{"error": {Code: code, Message: message}})
}

// writeError maps err to its client code. Internal errors are logged and
// their detail withheld.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.Code(err)
	body := errorBody{Code: code, Message: err.Error()}

	var missing *apperr.MissingConfigFieldError
	var color *apperr.InvalidColorFormatError
	switch {
	case errors.As(err, &missing):
		body.Field = missing.Field
	case errors.As(err, &color):
		body.Field = color.Field
	}

	if code == apperr.CodeInternal {
		a.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		body.Message = "internal error"
	}
	writeJSON(w, httpStatus(code), map[string]errorBody{"error": body})
}
