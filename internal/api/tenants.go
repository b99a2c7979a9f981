package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"babypool/internal/apperr"
	"babypool/internal/auth"
	"babypool/internal/model"
	"babypool/internal/site"
)

const maxSuggestions = 20

type provisionResponse struct {
	Tenant *model.Tenant `json:"tenant"`
	Bundle *site.Bundle  `json:"bundle"`
}

type checkResponse struct {
	Candidate string `json:"candidate"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorCode(w, codeBadRequest, "invalid tenant id")
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Check whether a subdomain can be allocated
// @Tags Subdomains
// @Produce json
// @Param name query string true "Candidate subdomain"
// @Success 200 {object} checkResponse
// @Router /subdomains/check [get]
func (a *API) CheckSubdomain(w http.ResponseWriter, r *http.Request) {
	candidate := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("name")))
	if candidate == "" {
		writeErrorCode(w, codeBadRequest, "name is required")
		return
	}

	resp := checkResponse{Candidate: candidate, Available: true}
	if err := a.Allocator.Check(r.Context(), candidate); err != nil {
		resp.Available = false
		resp.Reason = apperr.Code(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Suggest available subdomains derived from free text
// @Tags Subdomains
// @Produce json
// @Param name query string true "Free text, usually the site name"
// @Param n query int false "Number of suggestions"
// @Router /subdomains/suggest [get]
func (a *API) SuggestSubdomains(w http.ResponseWriter, r *http.Request) {
	n := 5
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxSuggestions {
			writeErrorCode(w, codeBadRequest, "n must be between 1 and 20")
			return
		}
		n = v
	}

	names, err := a.Allocator.Suggest(r.Context(), r.URL.Query().Get("name"), n)
	if err != nil && len(names) == 0 {
		a.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": names})
}

// @Summary Provision a tenant site
// @Tags Tenants
// @Security ProvisioningKey
// @Accept json
// @Produce json
// @Param body body model.TenantRequest true "Tenant config"
// @Success 201 {object} provisionResponse
// @Router /tenants [post]
func (a *API) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req model.TenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, codeBadRequest, "bad request body")
		return
	}

	tenant, bundle, err := a.Tenants.Provision(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.logger.Info("API: created tenant", zap.String("tenant", tenant.ID.String()), zap.String("subdomain", tenant.Subdomain))
	writeJSON(w, http.StatusCreated, provisionResponse{Tenant: tenant, Bundle: bundle})
}

// @Summary Replace a tenant's config and re-render its site
// @Tags Tenants
// @Security ProvisioningKey
// @Param id path string true "Tenant UUID"
// @Param body body model.TenantRequest true "Tenant config"
// @Success 200 {object} provisionResponse
// @Router /tenants/{id} [put]
func (a *API) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req model.TenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, codeBadRequest, "bad request body")
		return
	}

	tenant, bundle, err := a.Tenants.Reprovision(r.Context(), id, req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, provisionResponse{Tenant: tenant, Bundle: bundle})
}

// @Summary Delete a tenant without bets
// @Tags Tenants
// @Security ProvisioningKey
// @Param id path string true "Tenant UUID"
// @Success 204
// @Router /tenants/{id} [delete]
func (a *API) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}

	if err := a.Tenants.RemoveTenant(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}

	a.logger.Info("API: deleted tenant", zap.String("tenant", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get a tenant's config
// @Tags Tenants
// @Produce json
// @Param id path string true "Tenant UUID"
// @Success 200 {object} model.Tenant
// @Router /tenants/{id} [get]
func (a *API) GetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}

	tenant, err := a.Tenants.Tenant(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// @Summary Render the tenant's site bundle
// @Tags Tenants
// @Param id path string true "Tenant UUID"
// @Success 200 {object} site.Bundle
// @Router /tenants/{id}/site [get]
func (a *API) GetSite(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}

	bundle, err := a.Tenants.Render(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

type tokenRequest struct {
	Admin string `json:"admin"`
}

// @Summary Issue an admin token for a tenant
// @Tags Tenants
// @Security ProvisioningKey
// @Param id path string true "Tenant UUID"
// @Param body body tokenRequest true "Admin identity"
// @Success 201 {object} map[string]string
// @Router /tenants/{id}/tokens [post]
func (a *API) IssueToken(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantID(w, r)
	if !ok {
		return
	}

	var body tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Admin) == "" {
		writeErrorCode(w, codeBadRequest, "admin is required")
		return
	}

	if _, err := a.Tenants.Tenant(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(id.String(), strings.TrimSpace(body.Admin), a.TokenTTL)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}
