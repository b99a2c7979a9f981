package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantRequest_DueDate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{"date only", `{"site_name":"Pool","due_date":"2026-12-24"}`, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", `{"site_name":"Pool","due_date":"2026-12-24T00:00:00Z"}`, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)},
		{"missing", `{"site_name":"Pool"}`, time.Time{}},
		{"null", `{"site_name":"Pool","due_date":null}`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TenantRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.True(t, tt.want.Equal(req.DueDate), req.DueDate)
			assert.Equal(t, "Pool", req.SiteName)
		})
	}
}

func TestTenantRequest_OtherFieldsDecode(t *testing.T) {
	var req TenantRequest
	body := `{"subdomain":"margo-pool","winner_percentage":"0.6","categories":[{"key":"weight","name":"Weight"}],"slideshow_images":["1.jpg"]}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "margo-pool", req.Subdomain)
	require.NotNil(t, req.WinnerPercentage)
	assert.Equal(t, "0.6", req.WinnerPercentage.String())
	assert.Len(t, req.Categories, 1)
	assert.Equal(t, []string{"1.jpg"}, req.SlideshowImages)
}

func TestTenantRequest_BadDueDate(t *testing.T) {
	var req TenantRequest
	err := json.Unmarshal([]byte(`{"due_date":"24/12/2026"}`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "due_date")
}
