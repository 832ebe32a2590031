// Package stubservice is an in-memory stand-in for the training and
// prediction services. Training rows are kept in order; a prediction
// answers with the most recent training row. It is meant for demos and
// end-to-end tests, not for forecasting.
package stubservice

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/goliatone/go-timelineform/pkg/client"
	"github.com/goliatone/go-timelineform/pkg/openapi"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

const maxBodyBytes = 1 << 20

// Service stores training rows for one descriptor set.
type Service struct {
	validator *openapi.Validator
	logger    *slog.Logger

	mu   sync.Mutex
	rows [][]timeline.Value
}

// New returns a Service that rejects payloads not matching set.
func New(set timeline.Set, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{validator: openapi.NewValidator(set), logger: logger}
}

// Handler serves client.TrainPath and client.PredictPath.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+client.TrainPath, s.handleTrain)
	mux.HandleFunc("POST "+client.PredictPath, s.handlePredict)
	return mux
}

// Rows returns a copy of the stored training rows.
func (s *Service) Rows() [][]timeline.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]timeline.Value, len(s.rows))
	for idx, row := range s.rows {
		out[idx] = timeline.CloneValues(row)
	}
	return out
}

func (s *Service) handleTrain(w http.ResponseWriter, r *http.Request) {
	values, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.rows = append(s.rows, values)
	count := len(s.rows)
	s.mu.Unlock()

	s.logger.Debug("training row stored", "rows", count)
	w.WriteHeader(http.StatusOK)
}

func (s *Service) handlePredict(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.decode(w, r); !ok {
		return
	}
	s.mu.Lock()
	var latest []timeline.Value
	if len(s.rows) > 0 {
		latest = timeline.CloneValues(s.rows[len(s.rows)-1])
	}
	s.mu.Unlock()

	if latest == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(latest)
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request) ([]timeline.Value, bool) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	values, err := s.validator.ValidateJSON(payload)
	if err != nil {
		s.logger.Warn("payload rejected", "path", r.URL.Path, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return values, true
}
