// Package template serves the expected handoff shape for each role.
//
// Templates are embedded in the binary. A workspace may override any of
// them by placing a file of the same name in .relay/templates/.
package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thruflo/relay/internal/handoff"
)

//go:embed templates/*.yaml
var embedded embed.FS

// Template is the expected handoff shape for one role.
type Template struct {
	Role handoff.Role
	// Content is the YAML skeleton.
	Content string
	// Required lists the dotted paths the role must always provide.
	Required []string
	// Source is "embedded" or the override file path.
	Source string
}

// Skeleton decodes the template into a generic document.
func (t *Template) Skeleton() (map[string]any, error) {
	doc, err := handoff.Parse([]byte(t.Content))
	if err != nil {
		return nil, fmt.Errorf("template for %s: %w", t.Role.Name(), err)
	}
	return doc.Fields(), nil
}

// Provider returns the expected handoff shape for a role.
type Provider interface {
	ExpectedShape(role handoff.Role) (*Template, bool)
}

// Library is a Provider backed by the embedded templates and an optional
// override directory.
type Library struct {
	overrideDir string
	base        fs.FS
}

// Embedded returns a Library with no overrides.
func Embedded() *Library {
	return New("")
}

// New returns a Library that prefers files in overrideDir. An empty or
// missing overrideDir uses the embedded templates only.
func New(overrideDir string) *Library {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// This should never happen with properly embedded templates
		panic("failed to access embedded templates: " + err.Error())
	}
	return &Library{overrideDir: overrideDir, base: sub}
}

// FileName is the template file name for role.
func FileName(role handoff.Role) string {
	return role.Name() + "_handoff.yaml"
}

// ExpectedShape implements Provider.
func (l *Library) ExpectedShape(role handoff.Role) (*Template, bool) {
	if role == nil {
		return nil, false
	}
	name := FileName(role)
	t := &Template{Role: role, Required: handoff.RequiredFields(role), Source: "embedded"}

	if l.overrideDir != "" {
		path := filepath.Join(l.overrideDir, name)
		if data, err := os.ReadFile(path); err == nil {
			t.Content = string(data)
			t.Source = path
			return t, true
		}
	}

	data, err := fs.ReadFile(l.base, name)
	if err != nil {
		return nil, false
	}
	t.Content = string(data)
	return t, true
}

// Export writes every embedded template into dir, leaving existing files
// untouched unless force is set. It returns the paths written.
func Export(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create templates directory: %w", err)
	}

	var written []string
	for _, role := range handoff.Roles() {
		name := FileName(role)
		path := filepath.Join(dir, name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return written, fmt.Errorf("failed to stat %s: %w", name, err)
			}
		}
		data, err := embedded.ReadFile("templates/" + name)
		if err != nil {
			return written, fmt.Errorf("failed to read embedded %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Validate reports whether content parses as a handoff document. It is used
// to reject broken override files.
func Validate(content []byte) error {
	_, err := handoff.Parse(content)
	return err
}
