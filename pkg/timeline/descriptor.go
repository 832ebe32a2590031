package timeline

import (
	"fmt"
	"strings"
)

// DefaultDatetimeFormat is the strftime pattern applied to Datetime items
// that do not declare their own format.
const DefaultDatetimeFormat = "%Y-%m-%d %H:%M:%S"

// Descriptor configures one timeline item. Only the fields relevant to Type
// are meaningful: Format for Datetime, MinValue/MaxValue/Capacity for Integer
// and Float, Options/Capacity for Enum.
type Descriptor struct {
	Type     Kind     `json:"type" yaml:"type" toml:"type"`
	Format   string   `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	MinValue float64  `json:"min_value,omitempty" yaml:"min_value,omitempty" toml:"min_value,omitempty"`
	MaxValue float64  `json:"max_value,omitempty" yaml:"max_value,omitempty" toml:"max_value,omitempty"`
	Capacity int      `json:"capacity,omitempty" yaml:"capacity,omitempty" toml:"capacity,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// Datetime returns a Datetime descriptor. An empty format selects
// DefaultDatetimeFormat.
func Datetime(format string) Descriptor {
	return Descriptor{Type: KindDatetime, Format: format}
}

// Integer returns an Integer descriptor.
func Integer(minValue, maxValue float64, capacity int) Descriptor {
	return Descriptor{Type: KindInteger, MinValue: minValue, MaxValue: maxValue, Capacity: capacity}
}

// Float returns a Float descriptor.
func Float(minValue, maxValue float64, capacity int) Descriptor {
	return Descriptor{Type: KindFloat, MinValue: minValue, MaxValue: maxValue, Capacity: capacity}
}

// Enum returns an Enum descriptor over the given options.
func Enum(capacity int, options ...string) Descriptor {
	return Descriptor{Type: KindEnum, Options: append([]string(nil), options...), Capacity: capacity}
}

// Validate checks the descriptor for configuration errors. It does not
// impose any domain range on MinValue/MaxValue.
func (d Descriptor) Validate() error {
	switch d.Type {
	case KindDatetime:
		if err := CheckFormat(d.DatetimeFormat()); err != nil {
			return err
		}
		return nil
	case KindInteger, KindFloat:
		return nil
	case KindEnum:
		if len(d.Options) == 0 {
			return fmt.Errorf("timeline: enum item declares no options")
		}
		seen := make(map[string]struct{}, len(d.Options))
		for _, option := range d.Options {
			if _, dup := seen[option]; dup {
				return fmt.Errorf("timeline: enum option %q declared twice", option)
			}
			seen[option] = struct{}{}
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, d.Type)
	}
}

// DatetimeFormat returns the configured strftime pattern or the default.
func (d Descriptor) DatetimeFormat() string {
	if format := strings.TrimSpace(d.Format); format != "" {
		return format
	}
	return DefaultDatetimeFormat
}

// HasOption reports whether value is one of the Enum options.
func (d Descriptor) HasOption(value string) bool {
	for _, option := range d.Options {
		if option == value {
			return true
		}
	}
	return false
}

func (d Descriptor) clone() Descriptor {
	out := d
	if d.Options != nil {
		out.Options = append([]string(nil), d.Options...)
	}
	return out
}
