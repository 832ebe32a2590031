package timeline

import "errors"

var (
	// ErrUnknownKind reports a descriptor or value tagged with a kind outside
	// Datetime, Integer, Float and Enum. It is a configuration error and
	// callers must abort instead of skipping the entry.
	ErrUnknownKind = errors.New("timeline: unknown timeline item type")
	// ErrEmptySet is returned when a configuration lists no timeline items.
	ErrEmptySet = errors.New("timeline: descriptor set is empty")
	// ErrShapeMismatch reports a value list whose length or per-position
	// tags differ from the descriptor set it should mirror.
	ErrShapeMismatch = errors.New("timeline: values do not match descriptors")
	// ErrMissingValue reports a required position with no raw input.
	ErrMissingValue = errors.New("timeline: missing value")
	// ErrValueType reports raw input whose Go type cannot be wrapped under
	// the descriptor's tag.
	ErrValueType = errors.New("timeline: value has wrong type")
)
