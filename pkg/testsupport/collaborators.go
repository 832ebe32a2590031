package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// RecordingTrainer captures every payload it receives and returns Err.
type RecordingTrainer struct {
	mu    sync.Mutex
	Err   error
	calls [][]timeline.Value
}

// Train records values.
func (r *RecordingTrainer) Train(ctx context.Context, values []timeline.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, timeline.CloneValues(values))
	return r.Err
}

// Calls returns the recorded payloads.
func (r *RecordingTrainer) Calls() [][]timeline.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]timeline.Value(nil), r.calls...)
}

// ScriptedPredictor returns Responses in order (repeating the last one) and
// records the payloads it receives. Block, when set, is received from before
// answering so tests can hold a call in flight.
type ScriptedPredictor struct {
	mu        sync.Mutex
	Responses [][]timeline.Value
	Err       error
	Block     chan struct{}
	calls     [][]timeline.Value
}

// Predict records values and returns the next scripted response.
func (s *ScriptedPredictor) Predict(ctx context.Context, values []timeline.Value) ([]timeline.Value, error) {
	s.mu.Lock()
	idx := len(s.calls)
	s.calls = append(s.calls, timeline.CloneValues(values))
	block := s.Block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return nil, nil
	}
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	return timeline.CloneValues(s.Responses[idx]), nil
}

// Calls returns the recorded payloads.
func (s *ScriptedPredictor) Calls() [][]timeline.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]timeline.Value(nil), s.calls...)
}
