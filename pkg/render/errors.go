package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-timelineform/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages. Field keys are field names (decimal positions).
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload resolves error keys to fields. Accepted keys are the field
// name ("2"), the label form ("#3"), and JSON pointers into a values payload
// ("/values/2", "$.values[2]"). Anything else becomes a form-level message so
// nothing is lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	for rawKey, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name, ok := resolveFieldKey(form, rawKey)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func resolveFieldKey(form model.FormModel, raw string) (string, bool) {
	segments := parsePathSegments(raw)
	segments = dropWrapperSegments(segments)
	if len(segments) != 1 {
		return "", false
	}

	key := segments[0]
	if label, isLabel := strings.CutPrefix(key, "#"); isLabel {
		position, err := strconv.Atoi(label)
		if err != nil || position < 1 {
			return "", false
		}
		key = model.FieldName(position - 1)
	}

	field, ok := form.FieldByName(key)
	if !ok {
		return "", false
	}
	return field.Name, true
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "$.")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimLeft(clean, "/.$")

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 1 {
		switch strings.ToLower(segments[0]) {
		case "body", "values", "payload", "data":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}
