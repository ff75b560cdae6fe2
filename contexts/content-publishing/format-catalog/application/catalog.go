package application

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"brandcast/contexts/content-publishing/format-catalog/domain/entities"
	domainerrors "brandcast/contexts/content-publishing/format-catalog/domain/errors"
	"brandcast/contexts/content-publishing/format-catalog/ports"
)

// Catalog is the read-only, process-wide lookup of platform format definitions.
// It is built once at startup; duplicate keys in the source are a fatal
// configuration error, not a runtime condition.
type Catalog struct {
	formats map[string]entities.PlatformFormat
}

func NewCatalog(source ports.Source, logger *slog.Logger) (*Catalog, error) {
	log := ResolveLogger(logger)
	definitions, err := source.LoadFormats()
	if err != nil {
		log.Error("format catalog load failed",
			"event", "format_catalog_load_failed",
			"module", "content-publishing/format-catalog",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrCatalogSourceUnavailable, err)
	}

	formats := make(map[string]entities.PlatformFormat, len(definitions))
	for _, definition := range definitions {
		normalized, err := normalizeDefinition(definition)
		if err != nil {
			log.Error("format catalog definition rejected",
				"event", "format_catalog_definition_rejected",
				"module", "content-publishing/format-catalog",
				"layer", "application",
				"platform", definition.PlatformKey,
				"format", definition.FormatKey,
				"error", err.Error(),
			)
			return nil, err
		}
		key := normalized.Key()
		if _, exists := formats[key]; exists {
			log.Error("format catalog duplicate definition",
				"event", "format_catalog_duplicate_definition",
				"module", "content-publishing/format-catalog",
				"layer", "application",
				"format_key", key,
			)
			return nil, fmt.Errorf("%w: %s", domainerrors.ErrDuplicateFormat, key)
		}
		formats[key] = normalized
	}

	log.Info("format catalog loaded",
		"event", "format_catalog_loaded",
		"module", "content-publishing/format-catalog",
		"layer", "application",
		"format_count", len(formats),
	)
	return &Catalog{formats: formats}, nil
}

func (c *Catalog) Lookup(platformKey string, formatKey string) (entities.PlatformFormat, error) {
	key := normalizeKey(platformKey) + "/" + normalizeKey(formatKey)
	format, exists := c.formats[key]
	if !exists {
		return entities.PlatformFormat{}, fmt.Errorf("%w: %s", domainerrors.ErrFormatNotFound, key)
	}
	return format, nil
}

func (c *Catalog) List() []entities.PlatformFormat {
	formats := make([]entities.PlatformFormat, 0, len(c.formats))
	for _, format := range c.formats {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Key() < formats[j].Key()
	})
	return formats
}

func normalizeDefinition(definition entities.PlatformFormat) (entities.PlatformFormat, error) {
	definition.PlatformKey = normalizeKey(definition.PlatformKey)
	definition.FormatKey = normalizeKey(definition.FormatKey)
	if definition.PlatformKey == "" || definition.FormatKey == "" {
		return entities.PlatformFormat{}, fmt.Errorf("%w: platform and format keys are required",
			domainerrors.ErrInvalidFormatDefinition)
	}
	if definition.Rules.HashtagStyle == "" {
		definition.Rules.HashtagStyle = entities.HashtagStyleNone
	}
	switch definition.Rules.HashtagStyle {
	case entities.HashtagStyleNone, entities.HashtagStyleFew, entities.HashtagStyleMany:
	default:
		return entities.PlatformFormat{}, fmt.Errorf("%w: %s: unknown hashtag style %q",
			domainerrors.ErrInvalidFormatDefinition, definition.Key(), definition.Rules.HashtagStyle)
	}
	if definition.Rules.MaxDurationSeconds < 0 {
		return entities.PlatformFormat{}, fmt.Errorf("%w: %s: negative max duration",
			domainerrors.ErrInvalidFormatDefinition, definition.Key())
	}

	seen := make(map[string]struct{}, len(definition.OutputSchema))
	for index := range definition.OutputSchema {
		field := &definition.OutputSchema[index]
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return entities.PlatformFormat{}, fmt.Errorf("%w: %s: unnamed schema field",
				domainerrors.ErrInvalidFormatDefinition, definition.Key())
		}
		if _, exists := seen[field.Name]; exists {
			return entities.PlatformFormat{}, fmt.Errorf("%w: %s: duplicate schema field %q",
				domainerrors.ErrInvalidFormatDefinition, definition.Key(), field.Name)
		}
		seen[field.Name] = struct{}{}
		if err := validateFieldSchema(definition.Key(), *field); err != nil {
			return entities.PlatformFormat{}, err
		}
	}
	return definition, nil
}

func validateFieldSchema(formatKey string, field entities.FieldSchema) error {
	switch field.Type {
	case entities.FieldTypeString, entities.FieldTypeArray, entities.FieldTypeObject:
	default:
		return fmt.Errorf("%w: %s: field %q has unknown type %q",
			domainerrors.ErrInvalidFormatDefinition, formatKey, field.Name, field.Type)
	}
	if field.MaxLength < 0 || field.MinItems < 0 || field.MaxItems < 0 {
		return fmt.Errorf("%w: %s: field %q has a negative limit",
			domainerrors.ErrInvalidFormatDefinition, formatKey, field.Name)
	}
	if field.MinItems > 0 && field.MaxItems > 0 && field.MinItems > field.MaxItems {
		return fmt.Errorf("%w: %s: field %q requires min_items <= max_items",
			domainerrors.ErrInvalidFormatDefinition, formatKey, field.Name)
	}
	if field.Items != nil {
		if field.Type != entities.FieldTypeArray {
			return fmt.Errorf("%w: %s: field %q declares an item schema but is not an array",
				domainerrors.ErrInvalidFormatDefinition, formatKey, field.Name)
		}
		if err := validateFieldSchema(formatKey, *field.Items); err != nil {
			return err
		}
	}
	for _, child := range field.Fields {
		if field.Type != entities.FieldTypeObject {
			return fmt.Errorf("%w: %s: field %q declares child fields but is not an object",
				domainerrors.ErrInvalidFormatDefinition, formatKey, field.Name)
		}
		if strings.TrimSpace(child.Name) == "" {
			return fmt.Errorf("%w: %s: field %q has an unnamed child field",
				domainerrors.ErrInvalidFormatDefinition, formatKey, field.Name)
		}
		if err := validateFieldSchema(formatKey, child); err != nil {
			return err
		}
	}
	return nil
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
