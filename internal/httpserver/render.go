package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/BinkaDev/gachabox/internal/view"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

type panelView struct {
	Panel view.DetailPanel
	OOB   bool
}

var funcMap = template.FuncMap{
	"panel":       func(p view.DetailPanel, oob bool) panelView { return panelView{Panel: p, OOB: oob} },
	"itemColumns": func() int { return view.ItemColumns },
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	t, err := template.New("_root").Funcs(funcMap).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// templates parses once, or on every lookup in dev mode.
type templates struct {
	devDir string

	once  sync.Once
	cache *template.Template
	err   error
}

func newTemplates(devDir string) (*templates, error) {
	t := &templates{devDir: devDir}
	if _, err := t.lookup(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *templates) lookup() (*template.Template, error) {
	if t.devDir != "" {
		return parseTemplates(os.DirFS(t.devDir))
	}
	t.once.Do(func() {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			t.err = err
			return
		}
		t.cache, t.err = parseTemplates(sub)
	})
	return t.cache, t.err
}

// render executes name into a buffer so failures never leave a half-written page.
func (t *templates) render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, err := t.lookup()
	if err != nil {
		http.Error(w, "template parse error", http.StatusInternalServerError)
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return fmt.Errorf("execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
