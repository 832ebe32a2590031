package timeline

import (
	"encoding/json"
	"fmt"
)

// Set is the ordered, non-empty descriptor list a form is built from. It is
// immutable after construction; accessors hand out copies.
type Set struct {
	items []Descriptor
}

// NewSet validates the descriptors and returns an immutable Set. Any
// unknown kind fails the whole set.
func NewSet(descriptors []Descriptor) (Set, error) {
	if len(descriptors) == 0 {
		return Set{}, ErrEmptySet
	}
	items := make([]Descriptor, len(descriptors))
	for idx, descriptor := range descriptors {
		if err := descriptor.Validate(); err != nil {
			return Set{}, fmt.Errorf("timeline item #%d: %w", idx+1, err)
		}
		items[idx] = descriptor.clone()
	}
	return Set{items: items}, nil
}

// MustNewSet panics when NewSet fails. Useful for fixtures.
func MustNewSet(descriptors ...Descriptor) Set {
	set, err := NewSet(descriptors)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of timeline items.
func (s Set) Len() int {
	return len(s.items)
}

// At returns the descriptor at position idx.
func (s Set) At(idx int) Descriptor {
	return s.items[idx].clone()
}

// Descriptors returns a copy of the ordered descriptor list.
func (s Set) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.items))
	for idx, item := range s.items {
		out[idx] = item.clone()
	}
	return out
}

// Kinds returns the per-position kinds.
func (s Set) Kinds() []Kind {
	out := make([]Kind, len(s.items))
	for idx, item := range s.items {
		out[idx] = item.Type
	}
	return out
}

// Check verifies that values mirror the set: same length and the same tag at
// every position.
func (s Set) Check(values []Value) error {
	return CheckShape(s.items, values)
}

// MarshalJSON encodes the set as the ordered descriptor array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.items)
}

// CheckShape verifies that values carry exactly one value per descriptor and
// that the tag at every position equals the descriptor's type.
func CheckShape(descriptors []Descriptor, values []Value) error {
	if len(values) != len(descriptors) {
		return fmt.Errorf("%w: want %d values, got %d", ErrShapeMismatch, len(descriptors), len(values))
	}
	for idx, descriptor := range descriptors {
		if values[idx].Kind() != descriptor.Type {
			return fmt.Errorf("%w: position %d want %s, got %s", ErrShapeMismatch, idx, descriptor.Type, values[idx].Kind())
		}
	}
	return nil
}
