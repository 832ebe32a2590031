// Package server exposes a timeline form over HTTP: the rendered HTML form,
// a JSON API, and a websocket pushing each session's latest prediction.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-timelineform/pkg/config"
	"github.com/goliatone/go-timelineform/pkg/journal"
	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/openapi"
	"github.com/goliatone/go-timelineform/pkg/render"
	"github.com/goliatone/go-timelineform/pkg/renderers/vanilla"
	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/timeline"
	"github.com/goliatone/go-timelineform/pkg/values"
)

// Journal records submissions and lists them back per session.
// *journal.Store satisfies it.
type Journal interface {
	journal.Recorder
	List(ctx context.Context, filter journal.Filter) ([]journal.Entry, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJournal records every outbound submission.
func WithJournal(j Journal) Option {
	return func(s *Server) {
		if j != nil {
			s.journal = j
		}
	}
}

// WithRegistry sets the renderers available to GET /. The registry default
// is used unless the request names another with ?renderer=.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithForm applies title, description, theme and help text from a parsed
// configuration file.
func WithForm(form config.Form) Option {
	return func(s *Server) {
		s.form = form
	}
}

// WithTheme sets the theme configuration passed to renderers.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithOpenAPI serves doc at /openapi.json and validates API payloads with
// its validator.
func WithOpenAPI(doc openapi.Document) Option {
	return func(s *Server) {
		s.openapi = &doc
	}
}

// WithSessionLimit bounds the number of live sessions. The least recently
// used session is dropped, with its prediction, when the limit is reached.
func WithSessionLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.sessionLimit = limit
		}
	}
}

// WithAssets serves files at /assets/. Defaults to the vanilla renderer's
// stylesheet bundle.
func WithAssets(assets fs.FS) Option {
	return func(s *Server) {
		if assets != nil {
			s.assets = assets
		}
	}
}

// WithClock overrides the time source for sessions and journaling.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server holds the shared, read-only form definition and the per-session
// state.
type Server struct {
	set       timeline.Set
	formModel model.FormModel
	binder    *values.Binder
	trainer   submission.Trainer
	predictor submission.Predictor

	journal      Journal
	registry     *render.Registry
	form         config.Form
	theme        *theme.RendererConfig
	openapi      *openapi.Document
	sessionLimit int
	assets       fs.FS
	logger       *slog.Logger
	now          func() time.Time

	sessions *sessionStore
	mux      *http.ServeMux
}

// New builds a Server for set. trainer and predictor are shared by every
// session; each session gets its own intent and prediction.
func New(set timeline.Set, trainer submission.Trainer, predictor submission.Predictor, options ...Option) (*Server, error) {
	if set.Len() == 0 {
		return nil, fmt.Errorf("server: %w", timeline.ErrEmptySet)
	}
	if trainer == nil || predictor == nil {
		return nil, errors.New("server: trainer and predictor are required")
	}

	srv := &Server{
		set:          set,
		binder:       values.NewBinder(set),
		trainer:      trainer,
		predictor:    predictor,
		sessionLimit: config.DefaultSessionLimit,
		assets:       vanilla.AssetsFS(),
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(srv)
		}
	}

	if srv.registry == nil {
		renderer, err := vanilla.New(vanilla.WithStylesheetURL("/assets/" + vanilla.StylesheetName))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		srv.registry = render.NewRegistry()
		srv.registry.MustRegister(renderer)
	}

	builder := model.NewBuilder(set, model.WithDecorators(model.HelpText(srv.form.Help)))
	formModel, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("server: derive form: %w", err)
	}
	srv.formModel = formModel

	srv.sessions, err = newSessionStore(srv.sessionLimit, srv.logger, srv.newSession)
	if err != nil {
		return nil, fmt.Errorf("server: session store: %w", err)
	}

	srv.routes()
	return srv, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /submit", s.handleSubmitForm)
	mux.HandleFunc("GET /api/schema", s.handleSchema)
	mux.HandleFunc("POST /api/submit", s.handleSubmitAPI)
	mux.HandleFunc("GET /api/prediction", s.handlePrediction)
	mux.HandleFunc("GET /api/submissions", s.handleSubmissions)
	mux.HandleFunc("GET /ws/prediction", s.handleLive)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	s.mux = mux
}
