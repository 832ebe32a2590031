package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-timelineform/internal/openapi/wire"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// Validator checks tagged value payloads against the wire schema of a
// descriptor set. It is safe for concurrent use.
type Validator struct {
	descriptors []timeline.Descriptor
	schema      *openapi3.Schema
}

// NewValidator derives a validator from set.
func NewValidator(set timeline.Set) *Validator {
	descriptors := set.Descriptors()
	return &Validator{
		descriptors: descriptors,
		schema:      wire.ValuesSchema(descriptors),
	}
}

// Validate checks values against the schema, then the per-position tags and
// enum membership.
func (v *Validator) Validate(values []timeline.Value) error {
	if values == nil {
		values = []timeline.Value{}
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("openapi: encode payload: %w", err)
	}
	return v.validate(payload, values)
}

// ValidateJSON decodes and validates a raw JSON payload.
func (v *Validator) ValidateJSON(payload []byte) ([]timeline.Value, error) {
	var values []timeline.Value
	if err := json.Unmarshal(payload, &values); err != nil {
		return nil, fmt.Errorf("openapi: decode payload: %w", err)
	}
	if err := v.validate(payload, values); err != nil {
		return nil, err
	}
	return values, nil
}

func (v *Validator) validate(payload []byte, values []timeline.Value) error {
	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return fmt.Errorf("openapi: decode payload: %w", err)
	}
	if err := v.schema.VisitJSON(generic); err != nil {
		return fmt.Errorf("openapi: payload does not match schema: %w", err)
	}
	if err := timeline.CheckShape(v.descriptors, values); err != nil {
		return err
	}
	for idx, descriptor := range v.descriptors {
		if descriptor.Type == timeline.KindEnum && !descriptor.HasOption(values[idx].Text()) {
			return fmt.Errorf("openapi: position %d: %q is not an option", idx, values[idx].Text())
		}
	}
	return nil
}
