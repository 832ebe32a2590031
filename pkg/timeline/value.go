package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a tagged timeline value. Exactly one payload is meaningful,
// selected by Kind: Text for Datetime and Enum, Int for Integer, Float for
// Float.
type Value struct {
	kind    Kind
	text    string
	integer int64
	float   float64
}

// DatetimeValue tags a formatted datetime string.
func DatetimeValue(text string) Value {
	return Value{kind: KindDatetime, text: text}
}

// IntegerValue tags an integer.
func IntegerValue(value int64) Value {
	return Value{kind: KindInteger, integer: value}
}

// FloatValue tags a float.
func FloatValue(value float64) Value {
	return Value{kind: KindFloat, float: value}
}

// EnumValue tags a selected enum option.
func EnumValue(option string) Value {
	return Value{kind: KindEnum, text: option}
}

// Kind returns the value's tag.
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the payload of Datetime and Enum values.
func (v Value) Text() string {
	return v.text
}

// Int returns the payload of Integer values.
func (v Value) Int() int64 {
	return v.integer
}

// Float returns the payload of Float values.
func (v Value) Float() float64 {
	return v.float
}

// Any returns the payload as an untyped Go value.
func (v Value) Any() any {
	switch v.kind {
	case KindInteger:
		return v.integer
	case KindFloat:
		return v.float
	default:
		return v.text
	}
}

// Equal reports whether both values carry the same tag and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.integer == other.integer
	case KindFloat:
		return v.float == other.float || (math.IsNaN(v.float) && math.IsNaN(other.float))
	default:
		return v.text == other.text
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("{%s:%d}", v.kind, v.integer)
	case KindFloat:
		return fmt.Sprintf("{%s:%s}", v.kind, strconv.FormatFloat(v.float, 'g', -1, 64))
	default:
		return fmt.Sprintf("{%s:%q}", v.kind, v.text)
	}
}

// MarshalJSON encodes the value as a single-key object keyed by its tag.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindDatetime, KindEnum:
		payload = v.text
	case KindInteger:
		payload = v.integer
	case KindFloat:
		if math.IsNaN(v.float) || math.IsInf(v.float, 0) {
			return nil, fmt.Errorf("timeline: float value %v is not representable in JSON", v.float)
		}
		payload = v.float
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, v.kind)
	}
	return json.Marshal(map[string]any{string(v.kind): payload})
}

// UnmarshalJSON decodes a single-key tagged object.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timeline: decode value: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("timeline: tagged value must have exactly one key, got %d", len(raw))
	}

	for key, payload := range raw {
		kind := Kind(key)
		switch kind {
		case KindDatetime, KindEnum:
			var text string
			if err := json.Unmarshal(payload, &text); err != nil {
				return fmt.Errorf("timeline: decode %s value: %w", kind, err)
			}
			*v = Value{kind: kind, text: text}
		case KindInteger:
			number, err := decodeNumber(payload)
			if err != nil {
				return fmt.Errorf("timeline: decode %s value: %w", kind, err)
			}
			integer, err := integerFromNumber(number)
			if err != nil {
				return fmt.Errorf("timeline: decode %s value: %w", kind, err)
			}
			*v = IntegerValue(integer)
		case KindFloat:
			number, err := decodeNumber(payload)
			if err != nil {
				return fmt.Errorf("timeline: decode %s value: %w", kind, err)
			}
			parsed, err := number.Float64()
			if err != nil {
				return fmt.Errorf("timeline: decode %s value: %w", kind, err)
			}
			*v = FloatValue(parsed)
		default:
			return fmt.Errorf("%w %q", ErrUnknownKind, key)
		}
	}
	return nil
}

func decodeNumber(payload []byte) (json.Number, error) {
	if trimmed := bytes.TrimSpace(payload); len(trimmed) == 0 || trimmed[0] == '"' {
		return "", fmt.Errorf("expected a JSON number, got %s", payload)
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var number json.Number
	if err := decoder.Decode(&number); err != nil {
		return "", err
	}
	return number, nil
}

func integerFromNumber(number json.Number) (int64, error) {
	if integer, err := number.Int64(); err == nil {
		return integer, nil
	}
	parsed, err := number.Float64()
	if err != nil {
		return 0, err
	}
	if parsed != math.Trunc(parsed) || math.Abs(parsed) >= math.MaxInt64 {
		return 0, fmt.Errorf("%s is not an integer", number)
	}
	return int64(parsed), nil
}

// EqualValues reports whether two value lists are element-wise equal.
func EqualValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if !a[idx].Equal(b[idx]) {
			return false
		}
	}
	return true
}

// CloneValues returns a copy of values; nil stays nil.
func CloneValues(values []Value) []Value {
	if values == nil {
		return nil
	}
	return append([]Value(nil), values...)
}
