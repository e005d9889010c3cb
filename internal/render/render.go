// Package render implements echo.Renderer on embedded html/template files.
//
// Every page under templates/<app>/ is parsed together with base.html and
// the partials in templates/includes/, and executed through the "base"
// template. Pages are addressed by their path, e.g. "posts/index.html".
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

//go:embed templates
var templateFS embed.FS

// Renderer holds one parsed template set per page.
type Renderer struct {
	templates map[string]*template.Template
	now       func() time.Time
}

// New parses every embedded page.
func New() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*template.Template), now: time.Now}
	for _, page := range pages {
		name := strings.TrimPrefix(page, "templates/")
		if strings.HasPrefix(name, "includes/") {
			continue
		}
		t, err := template.New(path.Base(page)).
			Funcs(funcs).
			ParseFS(templateFS, "templates/base.html", "templates/includes/*.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Has reports whether a page with this name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes page name. data is normally an echo.Map; the viewer,
// CSRF token, request path and current year are added to it.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	ctx := echo.Map{}
	switch d := data.(type) {
	case echo.Map:
		for k, v := range d {
			ctx[k] = v
		}
	case nil:
	default:
		ctx["data"] = d
	}
	ctx["viewer"] = middleware.CurrentViewer(c)
	ctx["csrf_token"], _ = c.Get(echomw.DefaultCSRFConfig.ContextKey).(string)
	ctx["request_path"] = c.Request().URL.Path
	ctx["year"] = r.now().Year()

	return t.ExecuteTemplate(w, "base", ctx)
}
