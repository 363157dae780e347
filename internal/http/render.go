package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"golang.org/x/text/language/display"

	"dompet/internal/i18n"
	applog "dompet/internal/log"
)

var pageNames = []string{"dashboard", "settings", "error"}

// pages maps a page name to its template set; each set is layout.html plus
// the page, so every page can define its own "title" and "content".
type pages map[string]*template.Template

var templateFuncs = template.FuncMap{
	"t": func(b *i18n.Bundle, key string) string {
		return b.Text(i18n.Key(key))
	},
	"localize": func(l i18n.Locale, path string) string {
		return i18n.Localize(l, path)
	},
}

func parsePages(fsys fs.FS) (pages, error) {
	out := make(pages, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).
			ParseFS(fsys, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

type languageLink struct {
	Locale  i18n.Locale
	Label   string
	Href    string
	Current bool
}

type pageData struct {
	T             *i18n.Bundle
	Locale        i18n.Locale
	Active        string
	LocaleRouting bool
	Languages     []languageLink
	Content       any
}

type errorView struct {
	Status int
	Title  string
}

// bundle returns the message bundle for the request locale. Bundles are
// validated at startup, so a failure here is a deployment bug.
func (s *Server) bundle(r *http.Request) (*i18n.Bundle, error) {
	return s.deps.Catalog.Bundle(i18n.LocaleOf(r.Context()))
}

func (s *Server) languages(r *http.Request, current i18n.Locale) []languageLink {
	var out []languageLink
	for _, l := range i18n.Supported() {
		out = append(out, languageLink{
			Locale:  l,
			Label:   display.Self.Name(l.Tag()),
			Href:    i18n.Localize(l, r.URL.Path),
			Current: l == current,
		})
	}
	return out
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, active string, content any) {
	logger := applog.FromContext(r.Context())
	b, err := s.bundle(r)
	if err != nil {
		logger.ErrorContext(r.Context(), "Message bundle unavailable", applog.FieldError, err.Error())
		ErrorResponse(http.StatusInternalServerError, "internal error").Write(w)
		return
	}

	data := pageData{
		T:             b,
		Locale:        b.Locale(),
		Active:        active,
		LocaleRouting: s.localeRouting,
		Content:       content,
	}
	if s.localeRouting {
		data.Languages = s.languages(r, b.Locale())
	}

	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			"page", page,
			applog.FieldError, err.Error())
		ErrorResponse(http.StatusInternalServerError, b.Text(i18n.KeyErrorInternal)).Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.Bytes()).Write(w)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, key i18n.Key) {
	title := http.StatusText(status)
	if b, err := s.bundle(r); err == nil {
		title = b.Text(key)
	}
	s.render(w, r, status, "error", "", errorView{Status: status, Title: title})
}
