package main

import (
	"bytes"
	"fmt"
	"github.com/homecrimes/caseroom/internal/contexthelpers"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/ui"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
)

type BaseTemplateData struct {
	HasAccess bool
	Flash     string
}

func (app *application) newBaseTemplateData(r *http.Request) BaseTemplateData {
	ctx := r.Context()
	return BaseTemplateData{
		HasAccess: contexthelpers.HasAccess(ctx),
		Flash:     app.sessionManager.PopString(ctx, sessionKeyFlash),
	}
}

// newTemplateCache parses every page under ui/templates/pages together with the base layout.
//
// Each page directory has to define the templates "title" and "page".
func newTemplateCache() (map[string]*template.Template, error) {
	pageDirs, err := fs.Glob(ui.Files, "templates/pages/*")
	if err != nil {
		return nil, errors.Wrap(err, "glob page directories")
	}

	cache := make(map[string]*template.Template, len(pageDirs))
	for _, dir := range pageDirs {
		name := path.Base(dir)
		// The functions are placeholders until render binds them to the request.
		t, parseErr := template.New(name).Funcs(template.FuncMap{
			"nonce": func() template.HTMLAttr {
				panic("nonce called outside render")
			},
			"csrf": func() template.HTML {
				panic("csrf called outside render")
			},
		}).ParseFS(ui.Files, "templates/base.gohtml", dir+"/*.gohtml")
		if parseErr != nil {
			return nil, errors.Wrap(parseErr, "parse page template", slog.String("page", name))
		}
		cache[name] = t
	}
	return cache, nil
}

// render writes the page with status. HTMX requests only receive the main element.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	cached, ok := app.templates[page]
	if !ok {
		app.serverError(w, r, errors.New("template not found", slog.String("template", page)))
		return
	}

	t, err := cached.Clone()
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "clone template", slog.String("template", page)))
		return
	}

	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=%q", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf(`<input type="hidden" name="csrf_token" value="%s"/>`, contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // the nonce is generated by the server.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // the token is generated by nosurf.
		},
	})

	name := "base"
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		name = "main"
	}

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", page)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
