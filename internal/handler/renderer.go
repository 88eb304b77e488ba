package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/hanifn/tagihin/internal/domain"
)

// Renderer manages template parsing and rendering with isolated template sets
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the layout and page templates from the given filesystem.
// Each page gets its own clone of the layout so page blocks never collide.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	templates := make(map[string]*template.Template)

	baseTmpl, err := template.New("base").Funcs(TemplateFuncs()).ParseFS(fsys, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	for _, page := range pages {
		if page == "layout.html" {
			continue
		}

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(fsys, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		pageName := strings.TrimSuffix(page, path.Ext(page))
		templates[pageName] = pageTmpl
	}

	return &Renderer{templates: templates}, nil
}

// Render writes the named page template with a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, name string, data interface{}) error {
	return r.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus writes the named page template with an explicit status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
		"rupiah":     domain.FormatRupiah,
		"formatDate": formatDate,
		"formatDateP": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return formatDate(*t)
		},
		"formatQty": func(q float64) string {
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
		},
	}
}

func formatDate(t time.Time) string {
	return t.Format("2 January 2006")
}
