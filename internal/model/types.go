package model

import (
	"strconv"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// WidgetKind identifies the input control a renderer should emit for a field.
// It is a fixed function of the descriptor kind.
type WidgetKind string

const (
	WidgetDatetimePicker WidgetKind = "datetime-picker"
	WidgetNumericInput   WidgetKind = "numeric-input"
	WidgetSelect         WidgetKind = "select"
)

const (
	MetadataStep        = "step"
	MetadataPlaceholder = "placeholder"
	MetadataHelpText    = "helpText"
)

// Option is a select entry. Timeline enums use identity options: the label
// shown to the user is the value submitted.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field is the derived input schema for one timeline item. Name is the
// decimal position and is the only identity the field has.
type Field struct {
	Name     string            `json:"name"`
	Position int               `json:"position"`
	Type     timeline.Kind     `json:"type"`
	Widget   WidgetKind        `json:"widget"`
	Label    string            `json:"label"`
	Required bool              `json:"required"`
	Format   string            `json:"format,omitempty"`
	Options  []Option          `json:"options,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FormModel is the ordered field list renderers consume.
type FormModel struct {
	Fields   []Field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FieldName returns the field name used for the item at position idx.
func FieldName(idx int) string {
	return strconv.Itoa(idx)
}

// FieldByName looks up a field by its position name.
func (f FormModel) FieldByName(name string) (Field, bool) {
	idx, err := strconv.Atoi(name)
	if err != nil || idx < 0 || idx >= len(f.Fields) {
		return Field{}, false
	}
	return f.Fields[idx], true
}

// Names returns the field names in render order.
func (f FormModel) Names() []string {
	names := make([]string, len(f.Fields))
	for idx, field := range f.Fields {
		names[idx] = field.Name
	}
	return names
}

func (f *Field) ensureMetadata() map[string]string {
	if f.Metadata == nil {
		f.Metadata = make(map[string]string)
	}
	return f.Metadata
}

// Positions returns the zero-based positions in render order.
func (f FormModel) Positions() []int {
	positions := make([]int, len(f.Fields))
	for idx, field := range f.Fields {
		positions[idx] = field.Position
	}
	return positions
}
