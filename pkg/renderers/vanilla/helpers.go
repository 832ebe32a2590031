package vanilla

import (
	"sort"
	"strings"
)

func componentControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "tf-" + trimmed
}

func componentErrorsID(name string) string {
	controlID := componentControlID(name)
	if controlID == "" {
		return ""
	}
	return controlID + "-errors"
}

// cssVarsStyle renders custom properties as an inline style attribute value
// with keys sorted so output is stable.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var builder strings.Builder
	for idx, key := range keys {
		if idx > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(strings.NewReplacer(";", "", "\"", "", "<", "", ">", "").Replace(vars[key]))
		builder.WriteByte(';')
	}
	return builder.String()
}
