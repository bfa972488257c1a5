package server

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templateEngine renders the page chrome with pongo2 templates loaded from
// the embedded bundle. Parsed templates are cached per name.
type templateEngine struct {
	mu  sync.RWMutex
	set *pongo2.TemplateSet

	cache map[string]*pongo2.Template
}

func newTemplateEngine() (*templateEngine, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("server: template bundle: %w", err)
	}
	return &templateEngine{
		set:   pongo2.NewSet("performate", pongo2.NewFSLoader(sub)),
		cache: make(map[string]*pongo2.Template),
	}, nil
}

func (e *templateEngine) render(w io.Writer, name string, data pongo2.Context) error {
	tmpl, err := e.template(name)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteWriter(data, w); err != nil {
		return fmt.Errorf("server: execute template %q: %w", name, err)
	}
	return nil
}

func (e *templateEngine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("server: load template %q: %w", name, err)
	}

	e.mu.Lock()
	e.cache[name] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}
