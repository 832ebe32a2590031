package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-timelineform/pkg/journal"
	"github.com/goliatone/go-timelineform/pkg/prediction"
	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/values"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "tf_session"
	// CSRFField is the hidden form field carrying the session's CSRF token.
	CSRFField = "_csrf"
)

// session is one form session: its intent state and its last prediction.
type session struct {
	id     string
	csrf   string
	router *submission.Router
	cache  *prediction.Cache
}

type sessionStore struct {
	sessions *lru.Cache[string, *session]
	build    func(id string) *session
}

func newSessionStore(limit int, logger *slog.Logger, build func(id string) *session) (*sessionStore, error) {
	cache, err := lru.NewWithEvict[string, *session](limit, func(id string, _ *session) {
		logger.Debug("session evicted", "session", id)
	})
	if err != nil {
		return nil, err
	}
	return &sessionStore{sessions: cache, build: build}, nil
}

// resolve returns the session named by the request cookie, creating one
// (and setting the cookie) when the cookie is absent or its session was
// evicted.
func (s *sessionStore) resolve(w http.ResponseWriter, r *http.Request) *session {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if existing, ok := s.sessions.Get(cookie.Value); ok {
			return existing
		}
	}

	created := s.build(uuid.NewString())
	s.sessions.Add(created.id, created)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    created.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return created
}

// lookup returns the session named by the request cookie without creating
// one.
func (s *sessionStore) lookup(r *http.Request) (*session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return s.sessions.Get(cookie.Value)
}

func (s *sessionStore) len() int {
	return s.sessions.Len()
}

func (srv *Server) newSession(id string) *session {
	cache := prediction.NewCache(prediction.WithClock(srv.now))

	trainer := srv.trainer
	predictor := srv.predictor
	if srv.journal != nil {
		trainer = journal.Trainer(trainer, srv.journal, id, journal.WithLogger(srv.logger), journal.WithClock(srv.now))
		predictor = journal.Predictor(predictor, srv.journal, id, journal.WithLogger(srv.logger), journal.WithClock(srv.now))
	}

	router := submission.New(
		values.NewTagger(srv.set),
		trainer,
		predictor,
		cache,
		submission.WithLogger(srv.logger.With("session", id)),
		submission.WithClock(srv.now),
	)
	return &session{
		id:     id,
		csrf:   uuid.NewString(),
		router: router,
		cache:  cache,
	}
}

