package template

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Names of the built-in templates.
const (
	ProviderTemplate = "provider"
	StampTemplate    = "stamp"
)

const providerSource = `// Code generated by git-semver. DO NOT EDIT.

package {{ .Package }}

const (
	// Version is the full version name.
	Version = {{ quote .Version }}

	// VersionCode is the monotonically increasing build code.
	VersionCode uint32 = {{ .VersionCode }}

	// Channel is the release channel the version belongs to.
	Channel = {{ quote .Channel }}

	// Commit is the commit hash the version was computed at.
	Commit = {{ quote .Commit }}
)
`

const stampSource = "Version: `{{ .Version }}` (code {{ .VersionCode }}, {{ .Channel }})\n"

// Engine handles template loading and rendering.
type Engine struct {
	templates map[string]*template.Template
}

// New creates a new template engine with the built-in templates loaded.
func New() *Engine {
	e := &Engine{
		templates: make(map[string]*template.Template),
	}
	e.templates[ProviderTemplate] = template.Must(template.New(ProviderTemplate).Funcs(FuncMap()).Parse(providerSource))
	e.templates[StampTemplate] = template.Must(template.New(StampTemplate).Funcs(FuncMap()).Parse(stampSource))
	return e
}

// LoadFile loads a template from a file path.
func (e *Engine) LoadFile(name, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template file: %w", err)
	}

	return e.LoadString(name, string(content))
}

// LoadString loads a template from a string, replacing any template with the same name.
func (e *Engine) LoadString(name, content string) error {
	tmpl, err := template.New(name).Funcs(FuncMap()).Parse(content)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	e.templates[name] = tmpl
	return nil
}

// Render renders a template with the given data.
func (e *Engine) Render(name string, data any) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// RenderSource renders a template destined for path. Go files are gofmt-ed.
func (e *Engine) RenderSource(name, path string, data any) ([]byte, error) {
	out, err := e.Render(name, data)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(filepath.Ext(path), ".go") {
		return []byte(out), nil
	}

	formatted, err := format.Source([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", path, err)
	}
	return formatted, nil
}

// WriteFile renders a template to path, creating parent directories.
// It reports whether the file content changed.
func (e *Engine) WriteFile(name, path string, data any) (bool, error) {
	content, err := e.RenderSource(name, path, data)
	if err != nil {
		return false, err
	}

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

