package yamlsource

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"brandcast/contexts/content-publishing/format-catalog/domain/entities"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Source loads platform format definitions from YAML. With an empty Path the
// embedded default catalog is used, so the process never starts without
// reference data.
type Source struct {
	Path string
}

func (s Source) LoadFormats() ([]entities.PlatformFormat, error) {
	raw := defaultCatalog
	if s.Path != "" {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		raw = data
	}

	var document catalogDocument
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}

	formats := make([]entities.PlatformFormat, 0, len(document.Formats))
	for _, format := range document.Formats {
		formats = append(formats, format.toEntity())
	}
	return formats, nil
}

type catalogDocument struct {
	Formats []formatDocument `yaml:"formats"`
}

type formatDocument struct {
	Platform     string          `yaml:"platform"`
	Format       string          `yaml:"format"`
	OutputSchema []fieldDocument `yaml:"output_schema"`
	Rules        rulesDocument   `yaml:"rules"`
}

type fieldDocument struct {
	Name          string          `yaml:"name"`
	Type          string          `yaml:"type"`
	Required      bool            `yaml:"required"`
	MaxLength     int             `yaml:"max_length"`
	MinItems      int             `yaml:"min_items"`
	MaxItems      int             `yaml:"max_items"`
	AllowedValues []string        `yaml:"allowed_values"`
	Items         *fieldDocument  `yaml:"items"`
	Fields        []fieldDocument `yaml:"fields"`
}

type rulesDocument struct {
	AllowsLinks        bool   `yaml:"allows_links"`
	HashtagStyle       string `yaml:"hashtag_style"`
	MaxDurationSeconds int    `yaml:"max_duration_seconds"`
	Ephemeral          bool   `yaml:"ephemeral"`
	LinkRequired       bool   `yaml:"link_required"`
}

func (d formatDocument) toEntity() entities.PlatformFormat {
	schema := make([]entities.FieldSchema, 0, len(d.OutputSchema))
	for _, field := range d.OutputSchema {
		schema = append(schema, field.toEntity())
	}
	return entities.PlatformFormat{
		PlatformKey:  d.Platform,
		FormatKey:    d.Format,
		OutputSchema: schema,
		Rules: entities.FormatRules{
			AllowsLinks:        d.Rules.AllowsLinks,
			HashtagStyle:       entities.HashtagStyle(d.Rules.HashtagStyle),
			MaxDurationSeconds: d.Rules.MaxDurationSeconds,
			Ephemeral:          d.Rules.Ephemeral,
			LinkRequired:       d.Rules.LinkRequired,
		},
	}
}

func (d fieldDocument) toEntity() entities.FieldSchema {
	field := entities.FieldSchema{
		Name:          d.Name,
		Type:          entities.FieldType(d.Type),
		Required:      d.Required,
		MaxLength:     d.MaxLength,
		MinItems:      d.MinItems,
		MaxItems:      d.MaxItems,
		AllowedValues: append([]string(nil), d.AllowedValues...),
	}
	if d.Items != nil {
		items := d.Items.toEntity()
		field.Items = &items
	}
	for _, child := range d.Fields {
		field.Fields = append(field.Fields, child.toEntity())
	}
	return field
}
