package site

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"babypool/internal/apperr"
	"babypool/internal/model"
)

const templateExt = ".tmpl"

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// Bundle is the deployable output for one tenant. Files are keyed by output
// path; Checksum covers names and contents in sorted order. UpdatedAt is the
// config version the bundle was rendered from and orders bundles of the same
// tenant.
type Bundle struct {
	TenantID  uuid.UUID         `json:"tenant_id"`
	Subdomain string            `json:"subdomain"`
	UpdatedAt time.Time         `json:"updated_at"`
	Files     map[string]string `json:"files"`
	Checksum  string            `json:"checksum"`
}

// TemplateSet is the generic site: one template per output file.
type TemplateSet struct {
	templates []*Template
}

func NewTemplateSet(templates ...*Template) *TemplateSet {
	sorted := append([]*Template(nil), templates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &TemplateSet{templates: sorted}
}

// LoadTemplateSet reads every *.tmpl file at the root of fsys. The output
// name drops the .tmpl suffix.
func LoadTemplateSet(fsys fs.FS) (*TemplateSet, error) {
	matches, err := fs.Glob(fsys, "*"+templateExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no %s files found", templateExt)
	}

	var templates []*Template
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", m, err)
		}
		t, err := Parse(strings.TrimSuffix(path.Base(m), templateExt), string(data))
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return NewTemplateSet(templates...), nil
}

// DefaultTemplateSet is the built-in generic site.
func DefaultTemplateSet() *TemplateSet {
	sub, err := fs.Sub(defaultTemplates, "templates")
	if err != nil {
		panic(err)
	}
	set, err := LoadTemplateSet(sub)
	if err != nil {
		panic(err)
	}
	return set
}

// Fields lists every placeholder used across the set.
func (s *TemplateSet) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.templates {
		for _, f := range t.Fields() {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Render substitutes the tenant's config into a single template. Every
// placeholder is resolved before any output is produced.
func Render(t *Template, tenant model.Tenant) (string, error) {
	vals, err := FieldValues(tenant)
	if err != nil {
		return "", err
	}
	return t.execute(vals)
}

func (t *Template) execute(vals map[string]value) (string, error) {
	for _, f := range t.Fields() {
		if _, ok := vals[f]; !ok {
			return "", &apperr.MissingConfigFieldError{Field: f}
		}
	}

	var b strings.Builder
	for _, s := range t.segments {
		if s.isField {
			b.WriteString(vals[s.text].render(t.Escaping))
			continue
		}
		b.WriteString(s.text)
	}
	return b.String(), nil
}

// RenderBundle renders every template in the set. It is a pure function of
// its inputs.
func (s *TemplateSet) RenderBundle(tenant model.Tenant) (*Bundle, error) {
	vals, err := FieldValues(tenant)
	if err != nil {
		return nil, err
	}

	for _, f := range s.Fields() {
		if _, ok := vals[f]; !ok {
			return nil, &apperr.MissingConfigFieldError{Field: f}
		}
	}

	files := make(map[string]string, len(s.templates))
	for _, t := range s.templates {
		out, err := t.execute(vals)
		if err != nil {
			return nil, err
		}
		files[t.Name] = out
	}

	return &Bundle{
		TenantID:  tenant.ID,
		Subdomain: tenant.Subdomain,
		UpdatedAt: tenant.UpdatedAt,
		Files:     files,
		Checksum:  checksum(files),
	}, nil
}

// Verify reports whether Checksum still matches Files.
func (b *Bundle) Verify() bool {
	return b.Checksum != "" && b.Checksum == checksum(b.Files)
}

func checksum(files map[string]string) string {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
		h.Write([]byte(files[n]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
