package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "babypool/docs"
)

func TestSwaggerDoc(t *testing.T) {
	a, _, _ := newTestAPI(t)
	rec := do(t, a.Router(), http.MethodGet, "/swagger/doc.json", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths               map[string]map[string]json.RawMessage `json:"paths"`
		SecurityDefinitions map[string]json.RawMessage            `json:"securityDefinitions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Baby Pool API", doc.Info.Title)
	assert.Contains(t, doc.SecurityDefinitions, "ApiKeyAuth")
	assert.Contains(t, doc.SecurityDefinitions, "ProvisioningKey")

	routes := map[string][]string{
		"/subdomains/check":           {"get"},
		"/subdomains/suggest":         {"get"},
		"/tenants":                    {"post"},
		"/tenants/{id}":               {"get", "put", "delete"},
		"/tenants/{id}/site":          {"get"},
		"/tenants/{id}/categories":    {"get", "put"},
		"/tenants/{id}/bets":          {"get", "post"},
		"/tenants/{id}/bets/validate": {"post"},
		"/tenants/{id}/stats":         {"get"},
		"/tenants/{id}/tokens":        {"post"},
	}
	for path, methods := range routes {
		require.Contains(t, doc.Paths, path)
		for _, m := range methods {
			assert.Contains(t, doc.Paths[path], m, "%s %s", m, path)
		}
	}
}
