package application

import (
	"strings"
	"testing"

	"brandcast/contexts/content-publishing/format-catalog/domain/entities"
)

func carouselFormat() entities.PlatformFormat {
	return entities.PlatformFormat{
		PlatformKey: "instagram",
		FormatKey:   "carousel",
		OutputSchema: []entities.FieldSchema{
			{Name: "caption", Type: entities.FieldTypeString, Required: true, MaxLength: 2200},
			{
				Name:     "slides",
				Type:     entities.FieldTypeArray,
				Required: true,
				MinItems: 2,
				MaxItems: 10,
				Items: &entities.FieldSchema{
					Type: entities.FieldTypeObject,
					Fields: []entities.FieldSchema{
						{Name: "image_url", Type: entities.FieldTypeString, Required: true, MaxLength: 2048},
						{Name: "alt_text", Type: entities.FieldTypeString, MaxLength: 1000},
					},
				},
			},
		},
		Rules: entities.FormatRules{HashtagStyle: entities.HashtagStyleMany},
	}
}

func findViolation(t *testing.T, result entities.ValidationResult, field string, code string) entities.FieldViolation {
	t.Helper()
	for _, violation := range result.Violations {
		if violation.Field == field && violation.Code == code {
			return violation
		}
	}
	t.Fatalf("expected violation %s on field %q, got %+v", code, field, result.Violations)
	return entities.FieldViolation{}
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	result := Validator{}.Validate(map[string]any{
		"caption": "two views of the same product",
		"slides": []any{
			map[string]any{"image_url": "https://cdn.example.com/a.jpg"},
			map[string]any{"image_url": "https://cdn.example.com/b.jpg", "alt_text": "side view"},
		},
	}, carouselFormat())
	if !result.OK {
		t.Fatalf("expected valid payload, got violations %+v", result.Violations)
	}
}

func TestValidateFlagsMissingRequiredField(t *testing.T) {
	result := Validator{}.Validate(map[string]any{
		"slides": []any{
			map[string]any{"image_url": "https://cdn.example.com/a.jpg"},
			map[string]any{"image_url": "https://cdn.example.com/b.jpg"},
		},
	}, carouselFormat())
	if result.OK {
		t.Fatalf("expected violations for missing caption")
	}
	findViolation(t, result, "caption", entities.ViolationMissingField)
}

func TestValidateTreatsEmptyStringAsMissing(t *testing.T) {
	result := Validator{}.Validate(map[string]any{
		"caption": "   ",
		"slides": []any{
			map[string]any{"image_url": "https://cdn.example.com/a.jpg"},
			map[string]any{"image_url": "https://cdn.example.com/b.jpg"},
		},
	}, carouselFormat())
	findViolation(t, result, "caption", entities.ViolationMissingField)
}

func TestValidateFlagsTypeMismatch(t *testing.T) {
	result := Validator{}.Validate(map[string]any{
		"caption": 42,
		"slides": []any{
			map[string]any{"image_url": "https://cdn.example.com/a.jpg"},
			map[string]any{"image_url": "https://cdn.example.com/b.jpg"},
		},
	}, carouselFormat())
	findViolation(t, result, "caption", entities.ViolationTypeMismatch)
}

func TestValidateFlagsMaxLengthByRuneCount(t *testing.T) {
	format := entities.PlatformFormat{
		PlatformKey: "facebook",
		FormatKey:   "feed_post",
		OutputSchema: []entities.FieldSchema{
			{Name: "message", Type: entities.FieldTypeString, Required: true, MaxLength: 10},
		},
		Rules: entities.FormatRules{AllowsLinks: true, HashtagStyle: entities.HashtagStyleFew},
	}

	within := Validator{}.Validate(map[string]any{
		// 10 runes, more than 10 bytes.
		"message": strings.Repeat("å", 10),
	}, format)
	if !within.OK {
		t.Fatalf("expected 10-rune message to pass, got %+v", within.Violations)
	}

	over := Validator{}.Validate(map[string]any{
		"message": strings.Repeat("a", 11),
	}, format)
	findViolation(t, over, "message", entities.ViolationLimitExceeded)
}

func TestValidateFlagsTooFewSlides(t *testing.T) {
	result := Validator{}.Validate(map[string]any{
		"caption": "only one",
		"slides": []any{
			map[string]any{"image_url": "https://cdn.example.com/a.jpg"},
		},
	}, carouselFormat())
	findViolation(t, result, "slides", entities.ViolationLimitExceeded)
}

func TestValidateWalksNestedItemFields(t *testing.T) {
	result := Validator{}.Validate(map[string]any{
		"caption": "broken slide",
		"slides": []any{
			map[string]any{"image_url": "https://cdn.example.com/a.jpg"},
			map[string]any{"alt_text": "no image here"},
		},
	}, carouselFormat())
	findViolation(t, result, "slides[1].image_url", entities.ViolationMissingField)
}

func TestValidateRejectsLinkWhenFormatDisallowsIt(t *testing.T) {
	format := entities.PlatformFormat{
		PlatformKey: "instagram",
		FormatKey:   "feed_image",
		OutputSchema: []entities.FieldSchema{
			{Name: "caption", Type: entities.FieldTypeString, Required: true},
			{Name: "image_url", Type: entities.FieldTypeString, Required: true},
		},
		Rules: entities.FormatRules{AllowsLinks: false, HashtagStyle: entities.HashtagStyleMany},
	}
	result := Validator{}.Validate(map[string]any{
		"caption":   "look at this",
		"image_url": "https://cdn.example.com/a.jpg",
		"link":      "https://shop.example.com",
	}, format)
	findViolation(t, result, "link", entities.ViolationDisallowedField)
}

func TestValidateRequiresLinkWhenRuleDemandsIt(t *testing.T) {
	format := entities.PlatformFormat{
		PlatformKey: "facebook",
		FormatKey:   "link_post",
		OutputSchema: []entities.FieldSchema{
			{Name: "message", Type: entities.FieldTypeString, Required: true},
		},
		Rules: entities.FormatRules{AllowsLinks: true, HashtagStyle: entities.HashtagStyleNone, LinkRequired: true},
	}
	result := Validator{}.Validate(map[string]any{
		"message": "check this out",
	}, format)
	findViolation(t, result, "link", entities.ViolationMissingField)
}

func TestValidateLinkRequiredDoesNotDuplicateSchemaViolation(t *testing.T) {
	format := entities.PlatformFormat{
		PlatformKey: "facebook",
		FormatKey:   "link_post",
		OutputSchema: []entities.FieldSchema{
			{Name: "message", Type: entities.FieldTypeString, Required: true},
			{Name: "link", Type: entities.FieldTypeString, Required: true},
		},
		Rules: entities.FormatRules{AllowsLinks: true, HashtagStyle: entities.HashtagStyleNone, LinkRequired: true},
	}
	result := Validator{}.Validate(map[string]any{
		"message": "check this out",
	}, format)
	count := 0
	for _, violation := range result.Violations {
		if violation.Field == "link" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one link violation, got %d: %+v", count, result.Violations)
	}
}

func TestValidateIgnoresUnknownFields(t *testing.T) {
	result := Validator{}.Validate(map[string]any{
		"caption": "fine",
		"slides": []any{
			map[string]any{"image_url": "https://cdn.example.com/a.jpg"},
			map[string]any{"image_url": "https://cdn.example.com/b.jpg"},
		},
		"internal_note": "editors only",
	}, carouselFormat())
	if !result.OK {
		t.Fatalf("unknown fields must be ignored, got %+v", result.Violations)
	}
}
