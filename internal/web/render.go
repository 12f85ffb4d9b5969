package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates
var templateFS embed.FS

// Pages lists every template a handler may name in a Response.
var Pages = []string{
	"pages/home",
	"pages/venues",
	"pages/search_venues",
	"pages/show_venue",
	"pages/artists",
	"pages/search_artists",
	"pages/show_artist",
	"pages/shows",
	"forms/new_venue",
	"forms/edit_venue",
	"forms/new_artist",
	"forms/edit_artist",
	"forms/new_show",
	"errors/404",
	"errors/500",
}

// Renderer holds one parsed set per page: the layout, the shared partials and
// the page itself.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := template.New("main.html").Funcs(templateFuncs()).ParseFS(templateFS,
			"templates/layouts/main.html",
			"templates/partials/*.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written 200 behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data map[string]interface{}) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "main.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
