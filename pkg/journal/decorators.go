package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// Recorder persists entries. *Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry Entry) (Entry, error)
}

// Option configures the collaborator decorators.
type Option func(*decorator)

// WithLogger sets the logger used when an entry cannot be recorded.
func WithLogger(logger *slog.Logger) Option {
	return func(d *decorator) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock overrides the time source used for timing calls.
func WithClock(now func() time.Time) Option {
	return func(d *decorator) {
		if now != nil {
			d.now = now
		}
	}
}

type decorator struct {
	recorder Recorder
	session  string
	logger   *slog.Logger
	now      func() time.Time
}

func newDecorator(recorder Recorder, session string, options []Option) *decorator {
	d := &decorator{
		recorder: recorder,
		session:  session,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Trainer records every call to inner. A journal failure is logged and
// never changes the result the caller sees.
func Trainer(inner submission.Trainer, recorder Recorder, session string, options ...Option) submission.Trainer {
	if recorder == nil {
		return inner
	}
	d := newDecorator(recorder, session, options)
	return submission.TrainerFunc(func(ctx context.Context, values []timeline.Value) error {
		started := d.now()
		err := inner.Train(ctx, values)
		d.record(ctx, submission.IntentTrain, values, nil, err, started)
		return err
	})
}

// Predictor records every call to inner, including the raw prediction
// before any shape check.
func Predictor(inner submission.Predictor, recorder Recorder, session string, options ...Option) submission.Predictor {
	if recorder == nil {
		return inner
	}
	d := newDecorator(recorder, session, options)
	return submission.PredictorFunc(func(ctx context.Context, values []timeline.Value) ([]timeline.Value, error) {
		started := d.now()
		prediction, err := inner.Predict(ctx, values)
		d.record(ctx, submission.IntentPredict, values, prediction, err, started)
		return prediction, err
	})
}

func (d *decorator) record(ctx context.Context, intent submission.Intent, request, response []timeline.Value, callErr error, started time.Time) {
	entry := Entry{
		Session:   d.session,
		Intent:    intent,
		Request:   timeline.CloneValues(request),
		Duration:  d.now().Sub(started),
		CreatedAt: started,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	} else if response != nil {
		entry.Response = timeline.CloneValues(response)
	}

	// Record even when the request context has been cancelled.
	if _, err := d.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		d.logger.Warn("journal record failed",
			"session", d.session,
			"intent", intent.String(),
			"err", err,
		)
	}
}
