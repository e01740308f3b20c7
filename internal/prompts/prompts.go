// Package prompts renders the embedded prompt templates.
//
// Templates are Twig syntax rendered with stick. Only variable substitution
// is used; anything conditional is assembled by the caller so the template
// text stays readable as a prompt.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/tyler-sommer/stick"
)

//go:embed templates/*.twig
var templateFS embed.FS

// Template names
const (
	StyleSystem = "style_system"
	StyleUser   = "style_user"
	Copy        = "copy"
	Converse    = "converse"
)

// Vars are the values substituted into a template
type Vars map[string]string

// Library holds parsed-on-demand prompt templates
type Library struct {
	env       *stick.Env
	templates map[string]string
}

// New loads the embedded templates
func New() (*Library, error) {
	lib := &Library{
		env:       stick.New(nil),
		templates: make(map[string]string),
	}

	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".twig") {
			return nil
		}
		content, err := fs.ReadFile(templateFS, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		lib.templates[strings.TrimSuffix(path.Base(p), ".twig")] = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// MustNew is New for package-level initialisation; the templates are
// embedded so a failure is a build defect
func MustNew() *Library {
	lib, err := New()
	if err != nil {
		panic(err)
	}
	return lib
}

// Names returns the available template names in sorted order
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template and trims surrounding whitespace
func (l *Library) Render(name string, vars Vars) (string, error) {
	tpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	ctx := make(map[string]stick.Value, len(vars))
	for k, v := range vars {
		ctx[k] = v
	}

	var out strings.Builder
	if err := l.env.Execute(tpl, &out, ctx); err != nil {
		return "", fmt.Errorf("execute %q: %w", name, err)
	}
	return strings.TrimSpace(out.String()), nil
}
