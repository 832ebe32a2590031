package model

import internalmodel "github.com/goliatone/go-timelineform/internal/model"

// WidgetKind re-exports the internal widget enumeration.
type WidgetKind = internalmodel.WidgetKind

const (
	WidgetDatetimePicker = internalmodel.WidgetDatetimePicker
	WidgetNumericInput   = internalmodel.WidgetNumericInput
	WidgetSelect         = internalmodel.WidgetSelect
)

const (
	MetadataStep        = internalmodel.MetadataStep
	MetadataPlaceholder = internalmodel.MetadataPlaceholder
	MetadataHelpText    = internalmodel.MetadataHelpText
)

type Option = internalmodel.Option
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
type Labeler = internalmodel.Labeler

// FieldName returns the field name used for the item at position idx.
func FieldName(idx int) string {
	return internalmodel.FieldName(idx)
}

// WidgetFor exposes the fixed kind to widget mapping.
var WidgetFor = internalmodel.WidgetFor

// DefaultLabeler exposes the "#<n> <type>" label generator.
var DefaultLabeler = internalmodel.DefaultLabeler
