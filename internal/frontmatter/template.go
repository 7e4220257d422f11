package frontmatter

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/gorewood/nbjekyll/internal/config"
)

// DefaultTemplate is the template used when none is named.
const DefaultTemplate = "default"

// ErrTemplateNotFound is returned when no source provides a template.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed templates/*.md
var builtinFS embed.FS

// Template is a presentation header template.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Content is the template body after its own front matter.
	Content string `yaml:"-"`
	// Source is "project", "global" or "built-in".
	Source string `yaml:"-"`
}

// Resolver finds templates by name.
// Resolution order: project directory, global directory, built-in.
type Resolver struct {
	Fs         afero.Fs
	ProjectDir string
	GlobalDir  string
}

// DefaultResolver resolves from .nbjekyll/templates and the templates
// directory under the configuration directory.
func DefaultResolver() *Resolver {
	return &Resolver{
		Fs:         afero.NewOsFs(),
		ProjectDir: filepath.Join(".nbjekyll", "templates"),
		GlobalDir:  config.Path("templates"),
	}
}

// LoadTemplate resolves name with the DefaultResolver.
func LoadTemplate(name string) (*Template, error) {
	return DefaultResolver().Load(name)
}

// Load finds and parses the template called name. An empty name loads
// DefaultTemplate.
func (r *Resolver) Load(name string) (*Template, error) {
	if name == "" {
		name = DefaultTemplate
	}

	sources := []struct {
		label string
		dir   string
	}{
		{"project", r.ProjectDir},
		{"global", r.GlobalDir},
	}
	for _, src := range sources {
		if tmpl, err := r.loadFromDir(src.dir, name); err == nil {
			tmpl.Source = src.label
			return tmpl, nil
		}
	}

	return Builtin(name)
}

// Builtin returns the embedded template called name.
func Builtin(name string) (*Template, error) {
	tmpl, err := loadBuiltin(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	tmpl.Source = "built-in"
	return tmpl, nil
}

func (r *Resolver) loadFromDir(dir, name string) (*Template, error) {
	if dir == "" || r.Fs == nil {
		return nil, errors.New("no directory")
	}
	path := filepath.Join(dir, name+".md")
	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	return parseTemplate(name, string(data))
}

func loadBuiltin(name string) (*Template, error) {
	path := "templates/" + name + ".md"
	data, err := builtinFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading builtin template %s: %w", path, err)
	}
	return parseTemplate(name, string(data))
}

// parseTemplate reads optional YAML front matter and the template body.
func parseTemplate(name, raw string) (*Template, error) {
	tmpl := Template{Name: name}
	content := raw
	if strings.HasPrefix(raw, Delimiter) {
		meta, rest, err := Split(raw)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal([]byte(meta), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid template front matter: %w", err)
		}
		content = rest
	}
	tmpl.Content = strings.TrimSpace(content)
	return &tmpl, nil
}
