package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Template names.
const (
	Home        = "home"
	Products    = "products"
	ProductsAll = "products_All"
	About       = "about"
)

// Renderer writes a named view for the given data.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// TemplateRenderer renders one html/template set per page, each page
// sharing the layout.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i + 1
		}
		return s
	},
	"add":  func(a, b int) int { return a + b },
	"has":  lo.Contains[string],
	"join": strings.Join,
	"pageURL": func(path string, filters url.Values, page int) string {
		q := url.Values{}
		for k, v := range filters {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		return path + "?" + q.Encode()
	},
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	r := &TemplateRenderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{Home, Products, ProductsAll, About} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes the page into a buffer first so a template failure never
// leaves a half-written 200 response.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and images.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
