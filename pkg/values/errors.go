package values

import (
	"sort"
	"strings"
)

// FieldErrors maps a field name (its decimal position) to the messages
// raised while binding it.
type FieldErrors map[string][]string

// Add appends a message for field name.
func (e FieldErrors) Add(name, message string) {
	e[name] = append(e[name], message)
}

// Error renders the errors sorted by field name so output is stable.
func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, "#"+name+": "+strings.Join(e[name], "; "))
	}
	return "values: invalid input: " + strings.Join(parts, ", ")
}
