// Package timelineform renders typed timeline forms and routes their
// submissions to a training or prediction service. The subpackages hold
// the pieces; this package offers the common entry points.
package timelineform

import (
	"context"

	"github.com/goliatone/go-timelineform/pkg/orchestrator"
	"github.com/goliatone/go-timelineform/pkg/render"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the configuration file at path and renders its form
// with the named renderer (the vanilla HTML renderer when empty).
func GenerateHTML(ctx context.Context, path, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Path:     path,
		Renderer: rendererName,
	})
}
