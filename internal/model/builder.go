package model

import (
	"fmt"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// Builder converts timeline descriptors into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build derives one field per descriptor, in descriptor order. An unknown
// descriptor type aborts the build and no partial model is returned, since a
// missing field would shift every later position out of step with the value
// tagger.
func (b *Builder) Build(descriptors []timeline.Descriptor) (FormModel, error) {
	if len(descriptors) == 0 {
		return FormModel{}, timeline.ErrEmptySet
	}

	fields := make([]Field, 0, len(descriptors))
	for idx, descriptor := range descriptors {
		field, err := b.fieldFromDescriptor(idx, descriptor)
		if err != nil {
			return FormModel{}, err
		}
		fields = append(fields, field)
	}

	return FormModel{Fields: fields}, nil
}

func (b *Builder) fieldFromDescriptor(idx int, descriptor timeline.Descriptor) (Field, error) {
	widget, err := WidgetFor(descriptor.Type)
	if err != nil {
		return Field{}, fmt.Errorf("model builder: timeline item #%d: %w", idx+1, err)
	}

	field := Field{
		Name:     FieldName(idx),
		Position: idx,
		Type:     descriptor.Type,
		Widget:   widget,
		Label:    b.opts.Labeler(idx, descriptor.Type),
		Required: true,
	}

	switch descriptor.Type {
	case timeline.KindDatetime:
		field.Format = descriptor.DatetimeFormat()
		field.ensureMetadata()[MetadataPlaceholder] = field.Format
	case timeline.KindInteger:
		field.ensureMetadata()[MetadataStep] = "1"
	case timeline.KindFloat:
		field.ensureMetadata()[MetadataStep] = "any"
	case timeline.KindEnum:
		field.Options = make([]Option, len(descriptor.Options))
		for i, option := range descriptor.Options {
			field.Options[i] = Option{Label: option, Value: option}
		}
	}

	return field, nil
}

// WidgetFor maps a descriptor kind to its widget. The mapping is fixed:
// Datetime to datetime-picker, Integer and Float to numeric-input, Enum to
// select.
func WidgetFor(kind timeline.Kind) (WidgetKind, error) {
	switch kind {
	case timeline.KindDatetime:
		return WidgetDatetimePicker, nil
	case timeline.KindInteger, timeline.KindFloat:
		return WidgetNumericInput, nil
	case timeline.KindEnum:
		return WidgetSelect, nil
	default:
		return "", fmt.Errorf("%w %q", timeline.ErrUnknownKind, kind)
	}
}
