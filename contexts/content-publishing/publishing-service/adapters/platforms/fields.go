package platforms

import "strings"

func stringField(payload map[string]any, name string) string {
	value, _ := payload[name].(string)
	return strings.TrimSpace(value)
}

func stringSliceField(payload map[string]any, name string) []string {
	items, _ := payload[name].([]any)
	values := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok && strings.TrimSpace(text) != "" {
			values = append(values, strings.TrimSpace(text))
		}
	}
	return values
}

func objectSliceField(payload map[string]any, name string) []map[string]any {
	items, _ := payload[name].([]any)
	values := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if object, ok := item.(map[string]any); ok {
			values = append(values, object)
		}
	}
	return values
}

// renderHashtags appends the tag list to freeform text the way the platforms
// expect: blank line, then space-separated #tags.
func renderHashtags(text string, tags []string) string {
	if len(tags) == 0 {
		return text
	}
	rendered := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag == "" {
			continue
		}
		rendered = append(rendered, "#"+tag)
	}
	if len(rendered) == 0 {
		return text
	}
	if strings.TrimSpace(text) == "" {
		return strings.Join(rendered, " ")
	}
	return text + "\n\n" + strings.Join(rendered, " ")
}
