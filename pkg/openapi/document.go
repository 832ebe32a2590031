package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-timelineform/internal/openapi/wire"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

const (
	DefaultTitle   = "Timeline services"
	DefaultVersion = "1.0.0"
)

// Options configures the generated document.
type Options struct {
	Title            string
	Version          string
	TrainingServer   string
	PredictionServer string
}

// Option mutates Options.
type Option func(*Options)

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(opts *Options) {
		if title != "" {
			opts.Title = title
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(opts *Options) {
		if version != "" {
			opts.Version = version
		}
	}
}

// WithServers records the service base addresses on their paths.
func WithServers(training, prediction string) Option {
	return func(opts *Options) {
		opts.TrainingServer = training
		opts.PredictionServer = prediction
	}
}

// Document is a rendered OpenAPI document plus the validator derived from
// the same descriptor set.
type Document struct {
	raw       []byte
	validator *Validator
}

// Build renders the document for set.
func Build(ctx context.Context, set timeline.Set, options ...Option) (Document, error) {
	opts := Options{Title: DefaultTitle, Version: DefaultVersion}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	spec, err := wire.Build(ctx, set.Descriptors(), wire.Info{
		Title:            opts.Title,
		Version:          opts.Version,
		TrainingServer:   opts.TrainingServer,
		PredictionServer: opts.PredictionServer,
	})
	if err != nil {
		return Document{}, err
	}

	raw, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("openapi: marshal document: %w", err)
	}
	return Document{raw: raw, validator: NewValidator(set)}, nil
}

// Raw returns the JSON document.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Validator returns the payload validator for the document's set.
func (d Document) Validator() *Validator {
	return d.validator
}
