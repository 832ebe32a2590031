package timeline_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

func TestValue_MarshalJSON(t *testing.T) {
	values := []timeline.Value{
		timeline.DatetimeValue("2024-01-02 03:04:05"),
		timeline.IntegerValue(7),
		timeline.FloatValue(1.5),
		timeline.EnumValue("b"),
	}

	got, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `[{"Datetime":"2024-01-02 03:04:05"},{"Integer":7},{"Float":1.5},{"Enum":"b"}]`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var got []timeline.Value
	payload := `[{"Integer":3},{"Float":2},{"Enum":"a"},{"Datetime":"x"},{"Integer":4.0}]`
	if err := json.Unmarshal([]byte(payload), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []timeline.Value{
		timeline.IntegerValue(3),
		timeline.FloatValue(2),
		timeline.EnumValue("a"),
		timeline.DatetimeValue("x"),
		timeline.IntegerValue(4),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValue_UnmarshalJSONRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no keys":           `{}`,
		"two keys":          `{"Integer":1,"Float":2}`,
		"unknown tag":       `{"Bogus":1}`,
		"fractional":        `{"Integer":1.5}`,
		"string number":     `{"Float":"1"}`,
		"overflow":          `{"Integer":9.223372036854775808e18}`,
		"negative overflow": `{"Integer":-9.3e18}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var value timeline.Value
			if err := json.Unmarshal([]byte(payload), &value); err == nil {
				t.Fatalf("expected error for %s", payload)
			}
		})
	}

	var value timeline.Value
	err := json.Unmarshal([]byte(`{"Bogus":1}`), &value)
	if !errors.Is(err, timeline.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestSet_Check(t *testing.T) {
	set := timeline.MustNewSet(
		timeline.Integer(0, 10, 1),
		timeline.Enum(1, "a", "b"),
	)

	if err := set.Check([]timeline.Value{timeline.IntegerValue(1), timeline.EnumValue("a")}); err != nil {
		t.Fatalf("expected matching shape, got %v", err)
	}

	cases := map[string][]timeline.Value{
		"short":    {timeline.IntegerValue(1)},
		"long":     {timeline.IntegerValue(1), timeline.EnumValue("a"), timeline.EnumValue("b")},
		"swapped":  {timeline.EnumValue("a"), timeline.IntegerValue(1)},
		"wrongtag": {timeline.FloatValue(1), timeline.EnumValue("a")},
	}
	for name, values := range cases {
		if err := set.Check(values); !errors.Is(err, timeline.ErrShapeMismatch) {
			t.Fatalf("%s: expected ErrShapeMismatch, got %v", name, err)
		}
	}
}
