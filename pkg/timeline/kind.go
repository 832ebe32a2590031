package timeline

import "strings"

// Kind discriminates the four timeline item variants.
type Kind string

const (
	KindDatetime Kind = "Datetime"
	KindInteger  Kind = "Integer"
	KindFloat    Kind = "Float"
	KindEnum     Kind = "Enum"
)

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindDatetime, KindInteger, KindFloat, KindEnum}
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDatetime, KindInteger, KindFloat, KindEnum:
		return true
	default:
		return false
	}
}

// Lower returns the lowercased type name used in generated labels.
func (k Kind) Lower() string {
	return strings.ToLower(string(k))
}

func (k Kind) String() string {
	return string(k)
}
