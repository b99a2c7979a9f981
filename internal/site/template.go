// Package site renders the generic site template into a tenant's deployable
// bundle.
package site

import (
	"fmt"
	"path"
	"strings"
)

type Escaping int

const (
	EscapeNone Escaping = iota
	EscapeHTML
	EscapeJSON
)

// EscapingFor picks the escaping mode from an output file name.
func EscapingFor(name string) Escaping {
	switch path.Ext(name) {
	case ".json":
		return EscapeJSON
	case ".html", ".htm":
		return EscapeHTML
	default:
		return EscapeNone
	}
}

type segment struct {
	text    string
	isField bool
}

// Template is a parsed file with {{field}} placeholders.
type Template struct {
	Name     string
	Escaping Escaping
	segments []segment
}

// Parse splits text into literal and placeholder segments. Whitespace inside
// the braces is ignored.
func Parse(name, text string) (*Template, error) {
	t := &Template{Name: name, Escaping: EscapingFor(name)}

	rest := text
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			return nil, fmt.Errorf("template %s: unterminated placeholder", name)
		}
		field := strings.TrimSpace(rest[start+2 : start+2+end])
		if field == "" {
			return nil, fmt.Errorf("template %s: empty placeholder", name)
		}
		if start > 0 {
			t.segments = append(t.segments, segment{text: rest[:start]})
		}
		t.segments = append(t.segments, segment{text: field, isField: true})
		rest = rest[start+2+end+2:]
	}
	if rest != "" {
		t.segments = append(t.segments, segment{text: rest})
	}
	return t, nil
}

// Fields lists the placeholder names in order of first use.
func (t *Template) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range t.segments {
		if s.isField && !seen[s.text] {
			seen[s.text] = true
			out = append(out, s.text)
		}
	}
	return out
}
