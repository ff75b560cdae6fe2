package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FieldSchemaDTO struct {
	Name          string           `json:"name,omitempty"`
	Type          string           `json:"type"`
	Required      bool             `json:"required"`
	MaxLength     int              `json:"max_length,omitempty"`
	MinItems      int              `json:"min_items,omitempty"`
	MaxItems      int              `json:"max_items,omitempty"`
	AllowedValues []string         `json:"allowed_values,omitempty"`
	Items         *FieldSchemaDTO  `json:"items,omitempty"`
	Fields        []FieldSchemaDTO `json:"fields,omitempty"`
}

type FormatRulesDTO struct {
	AllowsLinks        bool   `json:"allows_links"`
	HashtagStyle       string `json:"hashtag_style"`
	MaxDurationSeconds int    `json:"max_duration_seconds,omitempty"`
	Ephemeral          bool   `json:"ephemeral"`
	LinkRequired       bool   `json:"link_required"`
}

type PlatformFormatDTO struct {
	Platform     string           `json:"platform"`
	Format       string           `json:"format"`
	OutputSchema []FieldSchemaDTO `json:"output_schema"`
	Rules        FormatRulesDTO   `json:"rules"`
}

type ListFormatsResponse struct {
	Formats []PlatformFormatDTO `json:"formats"`
}
