package submission

import (
	"context"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// Trainer pushes a tagged value list to the training service. Success
// carries no payload.
type Trainer interface {
	Train(ctx context.Context, values []timeline.Value) error
}

// Predictor sends a tagged value list to the prediction service and returns
// the predicted continuation.
type Predictor interface {
	Predict(ctx context.Context, values []timeline.Value) ([]timeline.Value, error)
}

// TrainerFunc adapts a function into a Trainer.
type TrainerFunc func(ctx context.Context, values []timeline.Value) error

// Train calls fn.
func (fn TrainerFunc) Train(ctx context.Context, values []timeline.Value) error {
	return fn(ctx, values)
}

// PredictorFunc adapts a function into a Predictor.
type PredictorFunc func(ctx context.Context, values []timeline.Value) ([]timeline.Value, error)

// Predict calls fn.
func (fn PredictorFunc) Predict(ctx context.Context, values []timeline.Value) ([]timeline.Value, error) {
	return fn(ctx, values)
}

// Tagger turns raw per-position input into tagged values for a fixed
// descriptor set. *values.Tagger satisfies it.
type Tagger interface {
	Tag(raw map[int]any) ([]timeline.Value, error)
	Descriptors() []timeline.Descriptor
}

// Store receives successful predictions. *prediction.Cache satisfies it.
type Store interface {
	Set(values []timeline.Value)
}
