// Package report renders funding digests for people: an HTML page with one
// table row per event, and a plain-text listing for the command line.
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"funding-digest/internal/domain/entity"
)

//go:embed digest.html.tmpl
var htmlSource string

//go:embed digest.txt.tmpl
var textSource string

const dateLayout = "2006-01-02"

var funcs = map[string]any{
	"date":   func(e entity.FundingEvent) string { return e.EarliestDate.Format(dateLayout) },
	"join":   strings.Join,
	"search": func(e entity.FundingEvent) string { return e.SearchLink() },
	"dash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}

// Renderer renders a digest in both formats. Templates are parsed once.
type Renderer struct {
	html *template.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	h, err := template.New("digest.html").Funcs(funcs).Parse(htmlSource)
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	t, err := texttemplate.New("digest.txt").Funcs(funcs).Parse(textSource)
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	return &Renderer{html: h, text: t}, nil
}

// view is the data both templates receive.
type view struct {
	*entity.Digest
	Date string
}

func newView(d *entity.Digest) view {
	return view{Digest: d, Date: d.GeneratedAt.Format(dateLayout)}
}

// RenderHTML writes the digest as a standalone HTML page.
func (r *Renderer) RenderHTML(w io.Writer, d *entity.Digest) error {
	if err := r.html.Execute(w, newView(d)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// RenderText writes the digest as a plain-text listing.
func (r *Renderer) RenderText(w io.Writer, d *entity.Digest) error {
	if err := r.text.Execute(w, newView(d)); err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	return nil
}
