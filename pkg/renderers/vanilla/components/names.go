package components

import "github.com/goliatone/go-timelineform/pkg/model"

// Component names used by the default registry. They match the widget kinds
// the model builder assigns, so a field resolves to its component directly.
const (
	NameDatetimePicker = string(model.WidgetDatetimePicker)
	NameNumericInput   = string(model.WidgetNumericInput)
	NameSelect         = string(model.WidgetSelect)
)

// Theme partial keys that override the built-in component templates.
const (
	PartialDatetime = "forms.datetime"
	PartialNumeric  = "forms.numeric"
	PartialSelect   = "forms.select"
)
