// Package model defines the form model consumed by renderers and the builder
// that derives it from a timeline descriptor set. Derivation is pure and
// deterministic: the same descriptors always produce the same fields in the
// same order, each named after its zero-based position, labelled
// "#<position+1> <type>", required, and bound to the widget fixed by its
// type (datetime-picker, numeric-input or select). Enum fields carry their
// options verbatim with identity label/value pairs. Decorators may enrich
// field metadata (help text, placeholders) after derivation but never add,
// drop or reorder fields.
package model
