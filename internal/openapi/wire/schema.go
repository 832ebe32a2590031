// Package wire describes the training and prediction payloads with
// kin-openapi. Consumers go through pkg/openapi.
package wire

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// ValuesSchema returns the schema of a tagged value array for descriptors:
// exactly len(descriptors) items, each a single-key object whose key is one
// of the kinds present in the set.
func ValuesSchema(descriptors []timeline.Descriptor) *openapi3.Schema {
	count := uint64(len(descriptors))

	array := openapi3.NewArraySchema()
	array.Items = openapi3.NewSchemaRef("", itemSchema(descriptors))
	array.MinItems = count
	array.MaxItems = &count
	array.Description = "Tagged timeline values in descriptor order."
	return array
}

func itemSchema(descriptors []timeline.Descriptor) *openapi3.Schema {
	var (
		seen    = make(map[timeline.Kind]bool)
		options []any
		known   = make(map[string]bool)
	)
	for _, descriptor := range descriptors {
		seen[descriptor.Type] = true
		if descriptor.Type != timeline.KindEnum {
			continue
		}
		for _, option := range descriptor.Options {
			if !known[option] {
				known[option] = true
				options = append(options, option)
			}
		}
	}

	variants := make([]*openapi3.Schema, 0, len(seen))
	for _, kind := range timeline.Kinds() {
		if !seen[kind] {
			continue
		}
		variants = append(variants, taggedSchema(kind, valueSchema(kind, options)))
	}

	if len(variants) == 1 {
		return variants[0]
	}
	return openapi3.NewOneOfSchema(variants...)
}

func valueSchema(kind timeline.Kind, options []any) *openapi3.Schema {
	switch kind {
	case timeline.KindDatetime:
		return openapi3.NewStringSchema()
	case timeline.KindInteger:
		return openapi3.NewIntegerSchema()
	case timeline.KindFloat:
		return openapi3.NewFloat64Schema()
	case timeline.KindEnum:
		schema := openapi3.NewStringSchema()
		schema.Enum = options
		return schema
	default:
		panic("wire: unreachable timeline kind " + string(kind))
	}
}

func taggedSchema(kind timeline.Kind, value *openapi3.Schema) *openapi3.Schema {
	closed := false
	schema := openapi3.NewObjectSchema()
	schema.Title = string(kind)
	schema.Properties = openapi3.Schemas{
		string(kind): openapi3.NewSchemaRef("", value),
	}
	schema.Required = []string{string(kind)}
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &closed}
	return schema
}
