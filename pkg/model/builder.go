package model

import (
	"fmt"

	"github.com/goliatone/go-timelineform/internal/model"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler    Labeler
	decorators []Decorator
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler Labeler) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithDecorators registers decorators applied after derivation.
func WithDecorators(decorators ...Decorator) BuilderOption {
	return func(opts *builderOptions) {
		opts.decorators = append(opts.decorators, decorators...)
	}
}

// Builder derives form models from the descriptor set it was constructed
// with. The set is immutable, so Build may be called any number of times.
type Builder struct {
	set        timeline.Set
	inner      *model.Builder
	decorators []Decorator
}

// NewBuilder returns a Builder bound to set.
func NewBuilder(set timeline.Set, options ...BuilderOption) *Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	internalOpts := model.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = model.Labeler(cfg.labeler)
	}

	return &Builder{
		set:        set,
		inner:      model.New(internalOpts),
		decorators: cfg.decorators,
	}
}

// Build derives the form model and runs the registered decorators.
func (b *Builder) Build() (FormModel, error) {
	form, err := b.inner.Build(b.set.Descriptors())
	if err != nil {
		return FormModel{}, err
	}

	count := len(form.Fields)
	for _, decorator := range b.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&form); err != nil {
			return FormModel{}, fmt.Errorf("model: decorate form: %w", err)
		}
		if len(form.Fields) != count {
			panic("model: decorator changed the number of fields")
		}
	}
	return form, nil
}

// Set returns the descriptor set the builder derives from.
func (b *Builder) Set() timeline.Set {
	return b.set
}

// Derive maps descriptors to a form model with the default options. It fails
// closed on an unknown descriptor type.
func Derive(descriptors []timeline.Descriptor) (FormModel, error) {
	return model.New(model.Options{}).Build(descriptors)
}
