package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"babypool/internal/auth"
	"babypool/internal/model"
)

type placeBetsRequest struct {
	Bettor model.Bettor       `json:"bettor"`
	Bets   []model.BetRequest `json:"bets"`
}

type validateRequest struct {
	BetIDs []uuid.UUID `json:"bet_ids"`
}

// adminTenant resolves the path tenant and checks the caller's token was
// issued for it.
func adminTenant(w http.ResponseWriter, r *http.Request) (uuid.UUID, *auth.Claims, bool) {
	id, ok := tenantID(w, r)
	if !ok {
		return uuid.Nil, nil, false
	}
	claims := auth.GetClaims(r)
	if claims == nil {
		writeErrorCode(w, codeUnauthorized, "unauthorized")
		return uuid.Nil, nil, false
	}
	if claims.TenantID != id.String() {
		writeErrorCode(w, codeForbidden, "token not valid for this tenant")
		return uuid.Nil, nil, false
	}
	return id, claims, true
}

// @Summary List the tenant's bet categories in display order
// @Tags Categories
// @Produce json
// @Param id path string true "Tenant UUID"
// @Success 200 {object} map[string][]model.Category
// @Router /tenants/{id}/categories [get]
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}

	cats, err := a.Categories.ListCategories(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.Category{"categories": cats})
}

// @Summary Replace the tenant's bet categories
// @Tags Categories
// @Security ApiKeyAuth
// @Param id path string true "Tenant UUID"
// @Router /tenants/{id}/categories [put]
func (a *API) ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	id, _, ok := adminTenant(w, r)
	if !ok {
		return
	}

	var body struct {
		Categories []model.Category `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, codeBadRequest, "bad request body")
		return
	}

	cats, err := a.Categories.Replace(r.Context(), id, body.Categories)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.Category{"categories": cats})
}

// @Summary Place a batch of bets for one bettor
// @Tags Bets
// @Accept json
// @Produce json
// @Param id path string true "Tenant UUID"
// @Param body body placeBetsRequest true "Bettor and bets"
// @Success 201 {object} map[string]interface{}
// @Router /tenants/{id}/bets [post]
func (a *API) PlaceBets(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}

	var body placeBetsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, codeBadRequest, "bad request body")
		return
	}

	bets, err := a.Ledger.PlaceBets(r.Context(), id, body.Bettor, body.Bets)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string][]model.Bet{"bets": bets})
}

// @Summary List the tenant's bets
// @Tags Bets
// @Security ApiKeyAuth
// @Param id path string true "Tenant UUID"
// @Param validated query bool false "Filter by validation status"
// @Router /tenants/{id}/bets [get]
func (a *API) ListBets(w http.ResponseWriter, r *http.Request) {
	id, _, ok := adminTenant(w, r)
	if !ok {
		return
	}

	var filter model.BetFilter
	if s := r.URL.Query().Get("validated"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeErrorCode(w, codeBadRequest, "validated must be true or false")
			return
		}
		filter.Validated = &v
	}

	bets, err := a.Ledger.ListBets(r.Context(), id, filter)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if bets == nil {
		bets = []model.Bet{}
	}
	writeJSON(w, http.StatusOK, map[string][]model.Bet{"bets": bets})
}

// @Summary Mark bets as paid
// @Tags Bets
// @Security ApiKeyAuth
// @Param id path string true "Tenant UUID"
// @Param body body validateRequest true "Bet ids"
// @Success 200 {object} model.ValidationResult
// @Router /tenants/{id}/bets/validate [post]
func (a *API) ValidateBets(w http.ResponseWriter, r *http.Request) {
	id, claims, ok := adminTenant(w, r)
	if !ok {
		return
	}

	var body validateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, codeBadRequest, "bad request body")
		return
	}

	result, err := a.Ledger.ValidateBets(r.Context(), id, body.BetIDs, claims.Subject)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// @Summary Settlement snapshot for the tenant
// @Tags Bets
// @Security ApiKeyAuth
// @Param id path string true "Tenant UUID"
// @Success 200 {object} model.SettlementSnapshot
// @Router /tenants/{id}/stats [get]
func (a *API) GetStats(w http.ResponseWriter, r *http.Request) {
	id, _, ok := adminTenant(w, r)
	if !ok {
		return
	}

	snap, err := a.Stats.ComputeStats(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
