package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry holding one component per widget
// kind.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameDatetimePicker, Descriptor{
		Renderer: templateComponentRenderer(PartialDatetime, templatePrefix+"datetime.tmpl", datetimeConfig),
	})
	registry.MustRegister(NameNumericInput, Descriptor{
		Renderer: templateComponentRenderer(PartialNumeric, templatePrefix+"numeric.tmpl", numericConfig),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(PartialSelect, templatePrefix+"select.tmpl", selectConfig),
	})

	return registry
}

type configFunc func(field model.Field, data ComponentData) map[string]any

func templateComponentRenderer(partialKey, templateName string, configure configFunc) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}

		control := map[string]any{
			"id":       data.ControlID,
			"name":     field.Name,
			"label":    field.Label,
			"required": field.Required,
			"invalid":  data.Invalid,
			"value":    data.Value,
		}
		for key, value := range configure(field, data) {
			control[key] = value
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, map[string]any{
			"control": control,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// datetimeConfig picks the native datetime-local picker when the item uses
// the default format, which the browser produces up to the "T" separator.
// Custom formats fall back to a text input hinted with the format.
func datetimeConfig(field model.Field, data ComponentData) map[string]any {
	format := field.Format
	if format == "" {
		format = timeline.DefaultDatetimeFormat
	}
	native := format == timeline.DefaultDatetimeFormat
	value := data.Value
	if native {
		value = strings.Replace(value, " ", "T", 1)
	}
	return map[string]any{
		"native":      native,
		"format":      format,
		"placeholder": field.Metadata[model.MetadataPlaceholder],
		"value":       value,
	}
}

func numericConfig(field model.Field, _ ComponentData) map[string]any {
	step := field.Metadata[model.MetadataStep]
	if step == "" {
		step = "any"
	}
	return map[string]any{
		"step":    step,
		"integer": field.Type == timeline.KindInteger,
	}
}

func selectConfig(field model.Field, data ComponentData) map[string]any {
	options := make([]map[string]any, len(field.Options))
	for idx, option := range field.Options {
		options[idx] = map[string]any{
			"label":    option.Label,
			"value":    option.Value,
			"selected": option.Value == data.Value,
		}
	}
	return map[string]any{
		"options":     options,
		"hasSelected": data.Value != "" && containsOption(field.Options, data.Value),
	}
}

func containsOption(options []model.Option, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}
