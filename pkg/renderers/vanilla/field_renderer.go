package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/render/template"
	"github.com/goliatone/go-timelineform/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

// render returns the complete markup for one field: label, control, help
// text and validation messages.
func (r *componentRenderer) render(field model.Field, value string, errs []string) (string, error) {
	componentName := string(field.Widget)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
		ControlID:     componentControlID(field.Name),
		Value:         value,
		Invalid:       len(errs) > 0,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}

	r.usedComponents[componentName] = struct{}{}
	return buildFieldMarkup(field, componentName, control.String(), errs), nil
}

func (r *componentRenderer) stylesheets() []string {
	if len(r.usedComponents) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}

func buildFieldMarkup(field model.Field, componentName, control string, errs []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`    <div class="tf-field" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-position="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`" data-type="`)
	builder.WriteString(html.EscapeString(string(field.Type)))
	builder.WriteString("\">\n")

	builder.WriteString(`      <label for="`)
	builder.WriteString(html.EscapeString(componentControlID(field.Name)))
	builder.WriteString(`" class="tf-label">`)
	builder.WriteString(html.EscapeString(field.Label))
	if field.Required {
		builder.WriteString(`<span class="tf-required" aria-hidden="true">*</span>`)
	}
	builder.WriteString("</label>\n")

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("      ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if hint := strings.TrimSpace(field.Metadata[model.MetadataHelpText]); hint != "" {
		builder.WriteString(`      <small class="tf-help">`)
		builder.WriteString(html.EscapeString(hint))
		builder.WriteString("</small>\n")
	}

	if len(errs) > 0 {
		builder.WriteString(`      <ul class="tf-errors" id="`)
		builder.WriteString(html.EscapeString(componentErrorsID(field.Name)))
		builder.WriteString("\">\n")
		for _, message := range errs {
			builder.WriteString("        <li>")
			builder.WriteString(html.EscapeString(message))
			builder.WriteString("</li>\n")
		}
		builder.WriteString("      </ul>\n")
	}

	builder.WriteString("    </div>")
	return builder.String()
}
