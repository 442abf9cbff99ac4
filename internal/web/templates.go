package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/authdash/internal/common"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin     = "login"
	pageRegister  = "register"
	pageDashboard = "dashboard"
)

// pages maps a page name to its template set (layout + page).
type pages map[string]*template.Template

func parsePages() (pages, error) {
	p := make(pages)
	for _, name := range []string{pageLogin, pageRegister, pageDashboard} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		p[name] = t.Lookup(name + ".html")
	}
	return p, nil
}

// render executes the page into a buffer first so a template failure never
// leaves a half written response.
func (p pages) render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := p[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set(common.HeaderContentType, common.ContentTypeHTML)
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

type formPage struct {
	Title string
	Error string
	Email string
	Name  string
}

type dashboardPage struct {
	Title     string
	User      dashboardUser
	Role      string
	Static    bool
	ExpiresAt string
}

type dashboardUser struct {
	ID    string
	Email string
	Name  string
}
