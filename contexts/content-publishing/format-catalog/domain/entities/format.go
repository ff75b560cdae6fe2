package entities

type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeArray  FieldType = "array"
	FieldTypeObject FieldType = "object"
)

type HashtagStyle string

const (
	HashtagStyleNone HashtagStyle = "none"
	HashtagStyleFew  HashtagStyle = "few"
	HashtagStyleMany HashtagStyle = "many"
)

// FieldSchema describes one declared payload field. Items carries the element
// schema for array fields; Fields carries the property schemas for object fields.
type FieldSchema struct {
	Name          string
	Type          FieldType
	Required      bool
	MaxLength     int
	MinItems      int
	MaxItems      int
	AllowedValues []string
	Items         *FieldSchema
	Fields        []FieldSchema
}

type FormatRules struct {
	AllowsLinks        bool
	HashtagStyle       HashtagStyle
	MaxDurationSeconds int
	Ephemeral          bool
	LinkRequired       bool
}

// PlatformFormat is immutable reference data describing what a valid contract
// payload looks like for one (platform, format) pair.
type PlatformFormat struct {
	PlatformKey  string
	FormatKey    string
	OutputSchema []FieldSchema
	Rules        FormatRules
}

func (f PlatformFormat) Key() string {
	return f.PlatformKey + "/" + f.FormatKey
}
