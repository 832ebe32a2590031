// Package submission routes a filled form to the training or prediction
// service according to the intent chosen last.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// ErrTransport marks a failed Trainer or Predictor call. The wrapped error
// is the collaborator's own.
var ErrTransport = errors.New("submission: transport failure")

// Outcome describes one finished submission.
type Outcome struct {
	Intent     Intent           `json:"intent"`
	Values     []timeline.Value `json:"values,omitempty"`
	Prediction []timeline.Value `json:"prediction,omitempty"`
	StartedAt  time.Time        `json:"startedAt"`
	Duration   time.Duration    `json:"duration"`
	Err        error            `json:"-"`
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for submission outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers a callback invoked after every submission,
// successful or not.
func WithObserver(observer func(Outcome)) Option {
	return func(r *Router) {
		if observer != nil {
			r.observers = append(r.observers, observer)
		}
	}
}

// WithClock overrides the time source used for Outcome timing.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// Router owns the intent state of one form session and dispatches
// submissions. It is safe for concurrent use; overlapping submissions are
// not sequenced, so the store holds whichever prediction completed last.
type Router struct {
	tagger    Tagger
	trainer   Trainer
	predictor Predictor
	store     Store

	mu     sync.Mutex
	intent Intent

	logger    *slog.Logger
	observers []func(Outcome)
	now       func() time.Time
}

// New builds a Router. The initial intent is train.
func New(tagger Tagger, trainer Trainer, predictor Predictor, store Store, options ...Option) *Router {
	if tagger == nil || trainer == nil || predictor == nil || store == nil {
		panic("submission: tagger, trainer, predictor and store are required")
	}
	r := &Router{
		tagger:    tagger,
		trainer:   trainer,
		predictor: predictor,
		store:     store,
		intent:    IntentTrain,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// ChooseTrain makes the next submission target the training service.
func (r *Router) ChooseTrain() {
	r.choose(IntentTrain)
}

// ChoosePredict makes the next submission target the prediction service.
func (r *Router) ChoosePredict() {
	r.choose(IntentPredict)
}

func (r *Router) choose(intent Intent) {
	r.mu.Lock()
	r.intent = intent
	r.mu.Unlock()
}

// Intent returns the current intent.
func (r *Router) Intent() Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intent
}

// Submit tags raw and sends it to exactly one collaborator, chosen by the
// intent read when Submit starts. A successful prediction replaces the
// stored one; failures leave the store untouched.
func (r *Router) Submit(ctx context.Context, raw map[int]any) (Outcome, error) {
	return r.submit(ctx, r.Intent(), raw)
}

// SubmitAs records intent as the current choice and submits raw to it in
// one step. A concurrent choice made by another caller cannot redirect this
// submission.
func (r *Router) SubmitAs(ctx context.Context, intent Intent, raw map[int]any) (Outcome, error) {
	if !intent.Valid() {
		panic(fmt.Sprintf("submission: unknown intent %q", intent))
	}
	r.choose(intent)
	return r.submit(ctx, intent, raw)
}

func (r *Router) submit(ctx context.Context, intent Intent, raw map[int]any) (Outcome, error) {
	outcome := Outcome{Intent: intent, StartedAt: r.now()}

	err := r.dispatch(ctx, raw, &outcome)
	outcome.Duration = r.now().Sub(outcome.StartedAt)
	outcome.Err = err
	r.report(outcome)

	return outcome, err
}

func (r *Router) dispatch(ctx context.Context, raw map[int]any, outcome *Outcome) error {
	tagged, err := r.tagger.Tag(raw)
	if err != nil {
		return fmt.Errorf("submission: tag values: %w", err)
	}
	outcome.Values = tagged

	switch outcome.Intent {
	case IntentTrain:
		if err := r.trainer.Train(ctx, tagged); err != nil {
			return fmt.Errorf("%w: train: %w", ErrTransport, err)
		}
		return nil
	case IntentPredict:
		result, err := r.predictor.Predict(ctx, tagged)
		if err != nil {
			return fmt.Errorf("%w: predict: %w", ErrTransport, err)
		}
		if err := timeline.CheckShape(r.tagger.Descriptors(), result); err != nil {
			return fmt.Errorf("submission: reject prediction: %w", err)
		}
		r.store.Set(result)
		outcome.Prediction = timeline.CloneValues(result)
		return nil
	default:
		panic(fmt.Sprintf("submission: unknown intent %q", outcome.Intent))
	}
}

func (r *Router) report(outcome Outcome) {
	if outcome.Err != nil {
		r.logger.Warn("submission failed",
			"intent", outcome.Intent,
			"duration", outcome.Duration,
			"err", outcome.Err,
		)
	} else {
		r.logger.Info("submission completed",
			"intent", outcome.Intent,
			"duration", outcome.Duration,
			"values", len(outcome.Values),
		)
	}
	for _, observer := range r.observers {
		observer(outcome)
	}
}
