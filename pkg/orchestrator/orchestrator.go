// Package orchestrator renders a timeline form straight from a configuration
// file: load, derive the descriptor set, build and decorate the form model,
// then hand it to a renderer.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-timelineform/pkg/config"
	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/render"
	"github.com/goliatone/go-timelineform/pkg/renderers/vanilla"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithLabeler overrides how field labels are derived.
func WithLabeler(labeler model.Labeler) Option {
	return func(o *Orchestrator) {
		o.labeler = labeler
	}
}

// WithDecorators registers decorators that run after the configured help
// text has been applied.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// Orchestrator coordinates the pipeline from configuration to rendered
// output. The zero configuration renders HTML with the vanilla renderer.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	labeler         model.Labeler
	decorators      []model.Decorator
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	return o
}

// Request describes where the configuration comes from and how to render it.
// Exactly one of Config, FS+Path or Path is used, in that order.
type Request struct {
	Config *config.File
	FS     fs.FS
	Path   string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// RenderOptions are passed through. Title, Description and Theme are
	// filled from the configuration when left empty.
	RenderOptions render.RenderOptions
}

// Build loads the configuration and returns the decorated form model.
func (o *Orchestrator) Build(ctx context.Context, req Request) (model.FormModel, config.File, error) {
	if ctx == nil {
		return model.FormModel{}, config.File{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, config.File{}, err
	}

	file, err := resolveConfig(req)
	if err != nil {
		return model.FormModel{}, config.File{}, err
	}
	set, err := file.Set()
	if err != nil {
		return model.FormModel{}, config.File{}, err
	}

	decorators := append([]model.Decorator{model.HelpText(file.Form.Help)}, o.decorators...)
	builderOptions := []model.BuilderOption{model.WithDecorators(decorators...)}
	if o.labeler != nil {
		builderOptions = append(builderOptions, model.WithLabeler(o.labeler))
	}
	form, err := model.NewBuilder(set, builderOptions...).Build()
	if err != nil {
		return model.FormModel{}, config.File{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	return form, file, nil
}

// Generate runs the full pipeline and returns the rendered bytes (HTML for
// the default vanilla renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	form, file, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Title == "" {
		options.Title = file.Form.Title
	}
	if options.Description == "" {
		options.Description = file.Form.Description
	}
	if options.Theme == nil {
		if manifest, ok := file.Manifest(file.Form.Theme); ok {
			options.Theme = render.ThemeConfig(manifest, file.Form.Variant)
		}
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func resolveConfig(req Request) (config.File, error) {
	switch {
	case req.Config != nil:
		return *req.Config, nil
	case req.FS != nil && req.Path != "":
		return config.LoadFS(req.FS, req.Path)
	case req.Path != "":
		return config.LoadFile(req.Path)
	default:
		return config.File{}, errors.New("orchestrator: config or path is required")
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}
