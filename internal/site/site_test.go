package site

import (
	"encoding/json"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babypool/internal/apperr"
	"babypool/internal/model"
)

func testTenant() model.Tenant {
	return model.Tenant{
		ID:              uuid.MustParse("6f1c2a7e-4b1d-4a51-9a7e-2d3c4b5a6f70"),
		Subdomain:       "margo-partner",
		SiteName:        `Margo & Partner's "Baby" Pool`,
		ParentNames:     "Margo & Sam",
		Description:     "Guess the date <and> weight",
		PrimaryColor:    "#FF0000",
		SecondaryColor:  "0a0",
		LogoURL:         "https://cdn.example.com/logo.png",
		SlideshowImages: []string{"a.jpg", "b.jpg"},
		DueDate:         time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		PaymentHandle:   "@margo-sam",
		APIBaseURL:      "https://api.babypool.app",
	}
}

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#FF0000", "255, 0, 0", false},
		{"00ff7f", "0, 255, 127", false},
		{"#abc", "170, 187, 204", false},
		{"red", "", true},
		{"#GG0000", "", true},
		{"#12345", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rgb, err := HexToRGB(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidColorFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rgb.String())
		})
	}
}

func TestParse(t *testing.T) {
	tmpl, err := Parse("x.txt", "Hi {{ site_name }} / {{subdomain}} / {{site_name}}")
	require.NoError(t, err)
	assert.Equal(t, []string{"site_name", "subdomain"}, tmpl.Fields())

	_, err = Parse("x.txt", "broken {{site_name")
	assert.Error(t, err)

	_, err = Parse("x.txt", "empty {{ }}")
	assert.Error(t, err)
}

func TestRender_Substitutes(t *testing.T) {
	tmpl, err := Parse("theme.css", "--p: {{primary_color}}; --p-rgb: {{primary_rgb}}; --s-rgb: {{secondary_rgb}};")
	require.NoError(t, err)

	out, err := Render(tmpl, testTenant())
	require.NoError(t, err)
	assert.Equal(t, "--p: #ff0000; --p-rgb: 255, 0, 0; --s-rgb: 0, 170, 0;", out)
}

func TestRender_MissingField(t *testing.T) {
	tmpl, err := Parse("x.txt", "{{site_name}} {{logo_url}}")
	require.NoError(t, err)

	tenant := testTenant()
	tenant.LogoURL = ""

	_, err = Render(tmpl, tenant)
	var missing *apperr.MissingConfigFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "logo_url", missing.Field)
}

func TestRender_UnknownPlaceholderIsMissing(t *testing.T) {
	tmpl, err := Parse("x.txt", "{{favourite_color}}")
	require.NoError(t, err)

	_, err = Render(tmpl, testTenant())
	assert.ErrorIs(t, err, apperr.ErrMissingConfigField)
}

func TestRender_InvalidColor(t *testing.T) {
	tmpl, err := Parse("x.txt", "{{site_name}}")
	require.NoError(t, err)

	tenant := testTenant()
	tenant.PrimaryColor = "red"

	_, err = Render(tmpl, tenant)
	var colorErr *apperr.InvalidColorFormatError
	require.True(t, errors.As(err, &colorErr))
	assert.Equal(t, "primary_color", colorErr.Field)
	assert.Equal(t, "red", colorErr.Value)
}

func TestRender_Escaping(t *testing.T) {
	html, err := Parse("index.html", "<title>{{site_name}}</title>")
	require.NoError(t, err)
	out, err := Render(html, testTenant())
	require.NoError(t, err)
	assert.Equal(t, "<title>Margo &amp; Partner&#39;s &#34;Baby&#34; Pool</title>", out)

	js, err := Parse("cfg.json", `{"name": "{{site_name}}", "images": {{slideshow_images}}}`)
	require.NoError(t, err)
	out, err = Render(js, testTenant())
	require.NoError(t, err)

	var decoded struct {
		Name   string   `json:"name"`
		Images []string `json:"images"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, testTenant().SiteName, decoded.Name)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, decoded.Images)
}

func TestRenderBundle_DefaultTemplates(t *testing.T) {
	set := DefaultTemplateSet()

	bundle, err := set.RenderBundle(testTenant())
	require.NoError(t, err)

	assert.Equal(t, "margo-partner", bundle.Subdomain)
	assert.Contains(t, bundle.Files, "site.json")
	assert.Contains(t, bundle.Files, "theme.css")
	assert.Contains(t, bundle.Files, "index.html")
	assert.Contains(t, bundle.Files["theme.css"], "--color-primary-rgb: 255, 0, 0;")

	var cfg map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(bundle.Files["site.json"]), &cfg))
	assert.Equal(t, "2026-12-24", cfg["dueDate"])
	assert.Equal(t, "6f1c2a7e-4b1d-4a51-9a7e-2d3c4b5a6f70", cfg["tenantId"])
}

func TestRenderBundle_Idempotent(t *testing.T) {
	set := DefaultTemplateSet()

	first, err := set.RenderBundle(testTenant())
	require.NoError(t, err)
	second, err := set.RenderBundle(testTenant())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Checksum, 64)

	changed := testTenant()
	changed.SiteName = "Another Pool"
	third, err := set.RenderBundle(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first.Checksum, third.Checksum)
}

func TestRenderBundle_MissingFieldProducesNothing(t *testing.T) {
	tenant := testTenant()
	tenant.SlideshowImages = nil

	bundle, err := DefaultTemplateSet().RenderBundle(tenant)
	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, apperr.ErrMissingConfigField)
}

func TestLoadTemplateSet(t *testing.T) {
	fsys := fstest.MapFS{
		"banner.txt.tmpl": {Data: []byte("Welcome to {{site_name}}")},
		"README.md":       {Data: []byte("ignored")},
	}

	set, err := LoadTemplateSet(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"site_name"}, set.Fields())

	bundle, err := set.RenderBundle(testTenant())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"banner.txt": "Welcome to " + testTenant().SiteName}, bundle.Files)

	_, err = LoadTemplateSet(fstest.MapFS{})
	assert.Error(t, err)
}

func TestBundle_Verify(t *testing.T) {
	b, err := DefaultTemplateSet().RenderBundle(testTenant())
	require.NoError(t, err)
	assert.True(t, b.Verify())

	b.Files["theme.css"] += "/* edited */"
	assert.False(t, b.Verify())

	assert.False(t, (&Bundle{Files: map[string]string{}}).Verify())
}
