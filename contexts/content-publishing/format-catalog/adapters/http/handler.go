package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"brandcast/contexts/content-publishing/format-catalog/application"
	"brandcast/contexts/content-publishing/format-catalog/domain/entities"
	httptransport "brandcast/contexts/content-publishing/format-catalog/transport/http"
)

type Handler struct {
	Catalog *application.Catalog
	Logger  *slog.Logger
}

func (h Handler) ListFormatsHandler(_ context.Context) httptransport.ListFormatsResponse {
	formats := h.Catalog.List()
	response := httptransport.ListFormatsResponse{
		Formats: make([]httptransport.PlatformFormatDTO, 0, len(formats)),
	}
	for _, format := range formats {
		response.Formats = append(response.Formats, mapPlatformFormat(format))
	}
	return response
}

func (h Handler) GetFormatHandler(
	_ context.Context,
	platformKey string,
	formatKey string,
) (httptransport.PlatformFormatDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	format, err := h.Catalog.Lookup(platformKey, formatKey)
	if err != nil {
		logger.Warn("format catalog http lookup failed",
			"event", "format_catalog_http_lookup_failed",
			"module", "content-publishing/format-catalog",
			"layer", "adapter",
			"platform", strings.TrimSpace(platformKey),
			"format", strings.TrimSpace(formatKey),
			"error", err.Error(),
		)
		return httptransport.PlatformFormatDTO{}, err
	}
	return mapPlatformFormat(format), nil
}

func mapPlatformFormat(format entities.PlatformFormat) httptransport.PlatformFormatDTO {
	schema := make([]httptransport.FieldSchemaDTO, 0, len(format.OutputSchema))
	for _, field := range format.OutputSchema {
		schema = append(schema, mapFieldSchema(field))
	}
	return httptransport.PlatformFormatDTO{
		Platform:     format.PlatformKey,
		Format:       format.FormatKey,
		OutputSchema: schema,
		Rules: httptransport.FormatRulesDTO{
			AllowsLinks:        format.Rules.AllowsLinks,
			HashtagStyle:       string(format.Rules.HashtagStyle),
			MaxDurationSeconds: format.Rules.MaxDurationSeconds,
			Ephemeral:          format.Rules.Ephemeral,
			LinkRequired:       format.Rules.LinkRequired,
		},
	}
}

func mapFieldSchema(field entities.FieldSchema) httptransport.FieldSchemaDTO {
	dto := httptransport.FieldSchemaDTO{
		Name:          field.Name,
		Type:          string(field.Type),
		Required:      field.Required,
		MaxLength:     field.MaxLength,
		MinItems:      field.MinItems,
		MaxItems:      field.MaxItems,
		AllowedValues: append([]string(nil), field.AllowedValues...),
	}
	if field.Items != nil {
		items := mapFieldSchema(*field.Items)
		dto.Items = &items
	}
	for _, child := range field.Fields {
		dto.Fields = append(dto.Fields, mapFieldSchema(child))
	}
	return dto
}
