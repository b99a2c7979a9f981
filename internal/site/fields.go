package site

import (
	"encoding/json"
	"errors"
	"html"
	"strings"

	"github.com/google/uuid"

	"babypool/internal/apperr"
	"babypool/internal/model"
)

// Placeholder names understood by the injector.
const (
	FieldSubdomain       = "subdomain"
	FieldSiteName        = "site_name"
	FieldParentNames     = "parent_names"
	FieldDueDate         = "due_date"
	FieldPaymentHandle   = "payment_handle"
	FieldPrimaryColor    = "primary_color"
	FieldSecondaryColor  = "secondary_color"
	FieldPrimaryRGB      = "primary_rgb"
	FieldSecondaryRGB    = "secondary_rgb"
	FieldDescription     = "description"
	FieldAPIBaseURL      = "api_base_url"
	FieldTenantID        = "tenant_id"
	FieldSlideshowImages = "slideshow_images"
	FieldLogoURL         = "logo_url"
)

const dueDateLayout = model.DueDateLayout

// value is either a scalar or a list. Lists render as a JSON array in JSON
// files and comma-joined elsewhere.
type value struct {
	text   string
	list   []string
	isList bool
}

func (v value) render(mode Escaping) string {
	switch mode {
	case EscapeJSON:
		if v.isList {
			b, _ := json.Marshal(v.list)
			return string(b)
		}
		b, _ := json.Marshal(v.text)
		return string(b[1 : len(b)-1])
	case EscapeHTML:
		if v.isList {
			return html.EscapeString(strings.Join(v.list, ","))
		}
		return html.EscapeString(v.text)
	default:
		if v.isList {
			return strings.Join(v.list, ",")
		}
		return v.text
	}
}

// FieldValues maps a tenant config to placeholder values. Empty config
// values are left out so that templates referencing them fail as missing.
// Colors are validated whenever they are set.
func FieldValues(t model.Tenant) (map[string]value, error) {
	vals := make(map[string]value)
	scalar := func(name, v string) {
		if strings.TrimSpace(v) != "" {
			vals[name] = value{text: v}
		}
	}

	scalar(FieldSubdomain, t.Subdomain)
	scalar(FieldSiteName, t.SiteName)
	scalar(FieldParentNames, t.ParentNames)
	scalar(FieldPaymentHandle, t.PaymentHandle)
	scalar(FieldDescription, t.Description)
	scalar(FieldAPIBaseURL, t.APIBaseURL)
	scalar(FieldLogoURL, t.LogoURL)

	if !t.DueDate.IsZero() {
		vals[FieldDueDate] = value{text: t.DueDate.Format(dueDateLayout)}
	}
	if t.ID != uuid.Nil {
		vals[FieldTenantID] = value{text: t.ID.String()}
	}
	if len(t.SlideshowImages) > 0 {
		vals[FieldSlideshowImages] = value{list: append([]string(nil), t.SlideshowImages...), isList: true}
	}

	colors := []struct {
		field, rgbField, hex string
	}{
		{FieldPrimaryColor, FieldPrimaryRGB, t.PrimaryColor},
		{FieldSecondaryColor, FieldSecondaryRGB, t.SecondaryColor},
	}
	for _, c := range colors {
		if strings.TrimSpace(c.hex) == "" {
			continue
		}
		norm, err := NormalizeHex(c.hex)
		if err != nil {
			var colorErr *apperr.InvalidColorFormatError
			if errors.As(err, &colorErr) {
				colorErr.Field = c.field
			}
			return nil, err
		}
		rgb, _ := HexToRGB(norm)
		vals[c.field] = value{text: norm}
		vals[c.rgbField] = value{text: rgb.String()}
	}

	return vals, nil
}
