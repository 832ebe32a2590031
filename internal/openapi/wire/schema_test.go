package wire

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

func TestValuesSchema_SingleKindHasNoOneOf(t *testing.T) {
	schema := ValuesSchema([]timeline.Descriptor{timeline.Integer(0, 1, 1), timeline.Integer(0, 5, 2)})

	if schema.MinItems != 2 || schema.MaxItems == nil || *schema.MaxItems != 2 {
		t.Fatalf("expected exactly two items, got min=%d max=%v", schema.MinItems, schema.MaxItems)
	}
	item := schema.Items.Value
	if len(item.OneOf) != 0 {
		t.Fatalf("expected a plain object item, got oneOf with %d entries", len(item.OneOf))
	}
	if diff := cmp.Diff([]string{"Integer"}, item.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesSchema_EnumUnion(t *testing.T) {
	schema := ValuesSchema([]timeline.Descriptor{
		timeline.Enum(1, "a", "b"),
		timeline.Datetime(""),
		timeline.Enum(1, "b", "c"),
	})

	item := schema.Items.Value
	if len(item.OneOf) != 2 {
		t.Fatalf("expected Datetime and Enum variants, got %d", len(item.OneOf))
	}

	var enum []any
	for _, variant := range item.OneOf {
		if prop, ok := variant.Value.Properties["Enum"]; ok {
			enum = prop.Value.Enum
		}
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, enum); diff != "" {
		t.Fatalf("enum union mismatch (-want +got):\n%s", diff)
	}

	if err := schema.VisitJSON([]any{
		map[string]any{"Enum": "c"},
		map[string]any{"Datetime": "2024-01-01 00:00:00"},
		map[string]any{"Enum": "a"},
	}); err != nil {
		t.Fatalf("visit: %v", err)
	}
	if err := schema.VisitJSON([]any{
		map[string]any{"Enum": "z"},
		map[string]any{"Datetime": "x"},
		map[string]any{"Enum": "a"},
	}); err == nil {
		t.Fatalf("expected unknown option to fail")
	}
}

func TestBuild_RejectsUnknownKind(t *testing.T) {
	if _, err := Build(context.Background(), []timeline.Descriptor{{Type: "Bogus"}}, Info{Title: "t", Version: "1"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
