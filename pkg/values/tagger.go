package values

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// Tagger wraps raw input under the tags of a fixed descriptor set.
type Tagger struct {
	descriptors []timeline.Descriptor
}

// NewTagger binds a tagger to set. The set is read once; later calls never
// observe another configuration.
func NewTagger(set timeline.Set) *Tagger {
	return &Tagger{descriptors: set.Descriptors()}
}

// Len reports how many positions the tagger expects.
func (t *Tagger) Len() int {
	return len(t.descriptors)
}

// Descriptors returns a copy of the bound descriptors.
func (t *Tagger) Descriptors() []timeline.Descriptor {
	return append([]timeline.Descriptor(nil), t.descriptors...)
}

// Tag wraps raw[i] under the tag of descriptor i for every position.
func (t *Tagger) Tag(raw map[int]any) ([]timeline.Value, error) {
	return Tag(t.descriptors, raw)
}

// Tag produces one tagged value per descriptor, in descriptor order. Any
// failure returns nil values: a partially tagged payload would shift
// positions on the wire.
func Tag(descriptors []timeline.Descriptor, raw map[int]any) ([]timeline.Value, error) {
	out := make([]timeline.Value, len(descriptors))
	for idx, descriptor := range descriptors {
		input, ok := raw[idx]
		if !ok || input == nil {
			return nil, fmt.Errorf("values: position %d: %w", idx, timeline.ErrMissingValue)
		}
		value, err := tagOne(descriptor.Type, input)
		if err != nil {
			return nil, fmt.Errorf("values: position %d: %w", idx, err)
		}
		out[idx] = value
	}
	return out, nil
}

func tagOne(kind timeline.Kind, input any) (timeline.Value, error) {
	switch kind {
	case timeline.KindDatetime:
		text, ok := input.(string)
		if !ok {
			return timeline.Value{}, typeError(kind, input)
		}
		return timeline.DatetimeValue(text), nil
	case timeline.KindInteger:
		number, ok := asInteger(input)
		if !ok {
			return timeline.Value{}, typeError(kind, input)
		}
		return timeline.IntegerValue(number), nil
	case timeline.KindFloat:
		number, ok := asFloat(input)
		if !ok {
			return timeline.Value{}, typeError(kind, input)
		}
		return timeline.FloatValue(number), nil
	case timeline.KindEnum:
		text, ok := input.(string)
		if !ok {
			return timeline.Value{}, typeError(kind, input)
		}
		return timeline.EnumValue(text), nil
	default:
		return timeline.Value{}, fmt.Errorf("%w %q", timeline.ErrUnknownKind, kind)
	}
}

func typeError(kind timeline.Kind, input any) error {
	return fmt.Errorf("%w: %s cannot hold %T", timeline.ErrValueType, kind, input)
}

func asInteger(input any) (int64, bool) {
	switch v := input.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return unsignedToInt(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return unsignedToInt(v)
	case float32:
		return integralFloat(float64(v))
	case float64:
		return integralFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integralFloat(f)
	default:
		return 0, false
	}
}

func unsignedToInt(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// integralFloat accepts floats that carry an exact integer, as produced by
// JSON decoding into any. Anything with a fraction is refused, not rounded.
func integralFloat(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func asFloat(input any) (float64, bool) {
	var out float64
	switch v := input.(type) {
	case float64:
		out = v
	case float32:
		out = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		out = f
	default:
		n, ok := asInteger(input)
		if !ok {
			return 0, false
		}
		out = float64(n)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, false
	}
	return out, true
}
