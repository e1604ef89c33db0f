package content

import (
	_ "embed"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"gopkg.in/yaml.v3"
	"log/slog"
)

// FallbackSlug is the slug of the embedded case.
const FallbackSlug = "los-hijos-acantilado"

//go:embed fallback.yaml
var fallbackYAML []byte

type yamlDocument struct {
	Case       any   `yaml:"case"`
	Acts       []any `yaml:"acts"`
	Events     []any `yaml:"events"`
	Evidence   []any `yaml:"evidences"`
	Locations  []any `yaml:"locations"`
	Questions  []any `yaml:"questions"`
	Characters []any `yaml:"characters"`
	Families   []any `yaml:"families"`
}

// ParseYAML decodes a case document laid out like the embedded fallback.
func ParseYAML(data []byte) (Raw, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Raw{}, errors.Wrap(err, "unmarshal case yaml") //nolint:exhaustruct // zero value
	}
	return Raw(doc), nil
}

// LoadFallback decodes the embedded case. It is loaded once at startup and shared; callers must not modify the
// returned slices.
func LoadFallback(logger *slog.Logger) (models.Content, error) {
	r, err := ParseYAML(fallbackYAML)
	if err != nil {
		return models.Content{}, errors.Wrap(err, "parse embedded case") //nolint:exhaustruct // error path
	}
	c := NewNormalizer("", logger).Assemble(r, FallbackSlug, models.Content{}) //nolint:exhaustruct // nothing to fall back to
	c.Source = models.SourceFallback
	return c, nil
}
