package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/render"
	rendertemplate "github.com/goliatone/go-timelineform/pkg/render/template"
	gotemplate "github.com/goliatone/go-timelineform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-timelineform/pkg/renderers/vanilla/components"
)

// Name is the registry name of the vanilla renderer.
const Name = "vanilla"

// DefaultTitle heads forms rendered without a title.
const DefaultTitle = "Timeline"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	stylesheetURL    string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk; files present
// there shadow the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		if _, err := os.Stat(path); err == nil {
			cfg.templateDir = path
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default widget components.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithStylesheetURL links the built-in stylesheet from url instead of
// inlining it. Serve AssetsFS at that location.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		cfg.stylesheetURL = strings.TrimSpace(url)
	}
}

// Renderer renders a full HTML page: the form, its two intent buttons and
// the last prediction panel.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	registry      *components.Registry
	stylesheetURL string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOptions := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		}
		if cfg.templateDir != "" {
			engineOptions = append(engineOptions, gotemplate.WithBaseDir(cfg.templateDir))
		}
		engine, err := gotemplate.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		registry:      cfg.registry,
		stylesheetURL: cfg.stylesheetURL,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	var partials map[string]string
	if options.Theme != nil {
		partials = options.Theme.Partials
	}
	fieldRenderer := newComponentRenderer(r.templates, r.registry, partials)

	fields := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		markup, err := fieldRenderer.render(field, options.Values[field.Name], options.Errors[field.Name])
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		fields = append(fields, markup)
	}

	predictionData := map[string]any{"live_url": options.LiveURL}
	if prediction := predictionView(options); prediction != nil {
		predictionData["prediction"] = prediction
	}
	predictionHTML, err := r.templates.RenderTemplate("templates/prediction.tmpl", predictionData)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render prediction: %w", err)
	}

	view := map[string]any{
		"form":            formView(form, options),
		"fields":          fields,
		"prediction_html": predictionHTML,
		"live_url":        options.LiveURL,
		"stylesheets":     r.stylesheets(fieldRenderer, options),
	}
	if r.stylesheetURL == "" {
		view["inline_styles"] = defaultStylesheet()
	}
	if options.Theme != nil {
		view["theme"] = map[string]any{
			"name":    options.Theme.Theme,
			"variant": options.Theme.Variant,
		}
		view["css_vars"] = cssVarsStyle(options.Theme.CSSVars)
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) stylesheets(fields *componentRenderer, options render.RenderOptions) []string {
	var out []string
	if r.stylesheetURL != "" {
		out = append(out, r.stylesheetURL)
	}
	out = append(out, fields.stylesheets()...)
	if options.Theme != nil && options.Theme.AssetURL != nil {
		if href := options.Theme.AssetURL("stylesheet"); href != "" && href != "stylesheet" {
			out = append(out, href)
		}
	}
	return out
}

func formView(form model.FormModel, options render.RenderOptions) map[string]any {
	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = strings.TrimSpace(form.Metadata["title"])
	}
	if title == "" {
		title = DefaultTitle
	}

	hidden := make([]map[string]string, 0, len(options.Hidden))
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}

	return map[string]any{
		"title":       title,
		"description": options.Description,
		"action":      options.Action,
		"intent":      options.Intent.String(),
		"errors":      options.FormErrors,
		"hidden":      hidden,
	}
}

func predictionView(options render.RenderOptions) map[string]any {
	snapshot := options.Prediction
	if snapshot == nil {
		return nil
	}

	items := make([]map[string]any, len(snapshot.Values))
	for idx, value := range snapshot.Values {
		items[idx] = map[string]any{
			"kind":  value.Kind().String(),
			"value": fmt.Sprint(value.Any()),
		}
	}
	return map[string]any{
		"version": strconv.FormatUint(snapshot.Version, 10),
		"updated": snapshot.UpdatedAt.UTC().Format(time.RFC3339),
		"items":   items,
		"values":  snapshot.Values,
	}
}
