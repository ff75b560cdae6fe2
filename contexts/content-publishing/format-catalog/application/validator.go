package application

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"brandcast/contexts/content-publishing/format-catalog/domain/entities"
)

const linkFieldName = "link"

// Validator checks a populated contract payload against a platform format's
// declared output schema and publishing rules. It is the single source of
// truth for whether a contract may become publishable; callers performing the
// draft -> ready transition must run it again rather than trust earlier checks.
type Validator struct{}

func (Validator) Validate(payload map[string]any, format entities.PlatformFormat) entities.ValidationResult {
	violations := make([]entities.FieldViolation, 0)
	for _, field := range format.OutputSchema {
		violations = append(violations, checkField(field.Name, payload[field.Name], hasField(payload, field.Name), field)...)
	}
	violations = append(violations, checkLinkRules(payload, format)...)
	return entities.ValidationResult{
		OK:         len(violations) == 0,
		Violations: violations,
	}
}

func checkField(name string, value any, present bool, field entities.FieldSchema) []entities.FieldViolation {
	if !present || isEmptyValue(value) {
		if field.Required {
			return []entities.FieldViolation{{
				Field:   name,
				Code:    entities.ViolationMissingField,
				Message: fmt.Sprintf("required field %q is missing or empty", name),
			}}
		}
		return nil
	}
	return checkValue(name, value, field)
}

func checkValue(name string, value any, field entities.FieldSchema) []entities.FieldViolation {
	switch field.Type {
	case entities.FieldTypeString:
		return checkStringValue(name, value, field)
	case entities.FieldTypeArray:
		return checkArrayValue(name, value, field)
	case entities.FieldTypeObject:
		return checkObjectValue(name, value, field)
	}
	return nil
}

func checkStringValue(name string, value any, field entities.FieldSchema) []entities.FieldViolation {
	text, ok := value.(string)
	if !ok {
		return []entities.FieldViolation{typeMismatch(name, "string", value)}
	}
	var violations []entities.FieldViolation
	if field.MaxLength > 0 && utf8.RuneCountInString(text) > field.MaxLength {
		violations = append(violations, entities.FieldViolation{
			Field:   name,
			Code:    entities.ViolationLimitExceeded,
			Message: fmt.Sprintf("field %q exceeds the maximum length of %d characters", name, field.MaxLength),
		})
	}
	if len(field.AllowedValues) > 0 && !containsValue(field.AllowedValues, text) {
		violations = append(violations, entities.FieldViolation{
			Field:   name,
			Code:    entities.ViolationLimitExceeded,
			Message: fmt.Sprintf("field %q must be one of: %s", name, strings.Join(field.AllowedValues, ", ")),
		})
	}
	return violations
}

func checkArrayValue(name string, value any, field entities.FieldSchema) []entities.FieldViolation {
	items, ok := value.([]any)
	if !ok {
		return []entities.FieldViolation{typeMismatch(name, "array", value)}
	}
	var violations []entities.FieldViolation
	if field.MinItems > 0 && len(items) < field.MinItems {
		violations = append(violations, entities.FieldViolation{
			Field:   name,
			Code:    entities.ViolationLimitExceeded,
			Message: fmt.Sprintf("field %q requires at least %d items", name, field.MinItems),
		})
	}
	if field.MaxItems > 0 && len(items) > field.MaxItems {
		violations = append(violations, entities.FieldViolation{
			Field:   name,
			Code:    entities.ViolationLimitExceeded,
			Message: fmt.Sprintf("field %q allows at most %d items", name, field.MaxItems),
		})
	}
	if field.Items != nil {
		for index, item := range items {
			violations = append(violations, checkValue(fmt.Sprintf("%s[%d]", name, index), item, *field.Items)...)
		}
	}
	return violations
}

func checkObjectValue(name string, value any, field entities.FieldSchema) []entities.FieldViolation {
	object, ok := value.(map[string]any)
	if !ok {
		return []entities.FieldViolation{typeMismatch(name, "object", value)}
	}
	var violations []entities.FieldViolation
	for _, child := range field.Fields {
		childName := name + "." + child.Name
		violations = append(violations, checkField(childName, object[child.Name], hasField(object, child.Name), child)...)
	}
	return violations
}

// Cross-field publishing rules. The link rule checks never duplicate a
// violation already produced by the schema walk for the same field.
func checkLinkRules(payload map[string]any, format entities.PlatformFormat) []entities.FieldViolation {
	link, present := payload[linkFieldName]
	linkText, _ := link.(string)
	hasLink := present && strings.TrimSpace(linkText) != ""

	if !format.Rules.AllowsLinks && hasLink {
		return []entities.FieldViolation{{
			Field:   linkFieldName,
			Code:    entities.ViolationDisallowedField,
			Message: fmt.Sprintf("format %s does not allow links", format.Key()),
		}}
	}
	if format.Rules.LinkRequired && !hasLink && !schemaRequiresLink(format) {
		return []entities.FieldViolation{{
			Field:   linkFieldName,
			Code:    entities.ViolationMissingField,
			Message: fmt.Sprintf("format %s requires a link", format.Key()),
		}}
	}
	return nil
}

func schemaRequiresLink(format entities.PlatformFormat) bool {
	for _, field := range format.OutputSchema {
		if field.Name == linkFieldName && field.Required {
			return true
		}
	}
	return false
}

func typeMismatch(name string, expected string, value any) entities.FieldViolation {
	return entities.FieldViolation{
		Field:   name,
		Code:    entities.ViolationTypeMismatch,
		Message: fmt.Sprintf("field %q must be of type %s, got %T", name, expected, value),
	}
}

func isEmptyValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	}
	return false
}

func hasField(payload map[string]any, name string) bool {
	_, present := payload[name]
	return present
}

func containsValue(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}
