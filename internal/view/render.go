package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/jpalmerr/sellerdash/internal/model"
)

// ErrUnknownFragment is returned by [Renderer.Fragment] for a name that has
// no region template.
var ErrUnknownFragment = errors.New("unknown fragment")

// Fragments names the independently refreshable page regions.
var Fragments = []string{"products", "notifications", "orders", "alerts", "tabs"}

// Renderer executes the dashboard templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every *.html template under assets/ in fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("dashboard").ParseFS(fsys, "assets/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	for _, name := range append([]string{"page", "confirm_delete"}, Fragments...) {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q not defined", name)
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the complete dashboard.
func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page", p)
}

// Fragment renders a single region of the page.
func (r *Renderer) Fragment(w io.Writer, name string, p Page) error {
	if !isFragment(name) {
		return fmt.Errorf("%w: %q", ErrUnknownFragment, name)
	}
	return r.tmpl.ExecuteTemplate(w, name, p)
}

// ConfirmDelete renders the confirmation step shown before a product is
// removed.
func (r *Renderer) ConfirmDelete(w io.Writer, title string, p model.Product) error {
	return r.tmpl.ExecuteTemplate(w, "confirm_delete", struct {
		Title   string
		Product model.Product
	}{title, p})
}

func isFragment(name string) bool {
	for _, f := range Fragments {
		if f == name {
			return true
		}
	}
	return false
}
