package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-timelineform/pkg/client"
	"github.com/goliatone/go-timelineform/pkg/journal"
	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/render"
	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/timeline"
	"github.com/goliatone/go-timelineform/pkg/values"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.resolve(w, r)
	s.renderForm(w, r, sess, http.StatusOK, render.RenderOptions{})
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.resolve(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(r.PostForm.Get(CSRFField)), []byte(sess.csrf)) != 1 {
		http.Error(w, "invalid or expired form token, reload the page", http.StatusForbidden)
		return
	}

	var intent submission.Intent
	if name := r.PostForm.Get("intent"); name != "" {
		parsed, err := submission.ParseIntent(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		intent = parsed
	}

	echo := s.binder.Echo(r.PostForm)
	raw, fieldErrs := s.binder.Bind(r.PostForm)
	if fieldErrs != nil {
		if intent != "" {
			choose(sess.router, intent)
		}
		s.renderForm(w, r, sess, http.StatusUnprocessableEntity, render.RenderOptions{
			Values: echo,
			Errors: fieldErrs,
		})
		return
	}

	outcome, err := submit(r.Context(), sess.router, intent, raw)
	if err != nil {
		s.renderForm(w, r, sess, statusFor(err), render.RenderOptions{
			Values:     echo,
			FormErrors: []string{describeFailure(outcome.Intent, err)},
		})
		return
	}
	s.renderForm(w, r, sess, http.StatusOK, render.RenderOptions{Values: echo})
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, sess *session, status int, options render.RenderOptions) {
	renderer, err := s.registry.Get(r.URL.Query().Get("renderer"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	options.Title = s.form.Title
	options.Description = s.form.Description
	options.Action = "/submit"
	options.Intent = sess.router.Intent()
	options.Hidden = render.MergeHiddenFields(options.Hidden, render.CSRFToken(CSRFField, sess.csrf))
	options.LiveURL = "/ws/prediction"
	options.Theme = s.theme
	if snapshot, ok := sess.cache.Snapshot(); ok {
		options.Prediction = &snapshot
	}

	body, err := renderer.Render(r.Context(), s.formModel, options)
	if err != nil {
		s.logger.Error("render form failed", "renderer", renderer.Name(), "err", err)
		http.Error(w, "render form failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

type schemaResponse struct {
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Form        model.FormModel `json:"form"`
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schemaResponse{
		Title:       s.form.Title,
		Description: s.form.Description,
		Form:        s.formModel,
	})
}

type submitRequest struct {
	Intent string         `json:"intent"`
	Values map[string]any `json:"values"`
}

type submitResponse struct {
	Intent     submission.Intent `json:"intent"`
	Values     []timeline.Value  `json:"values"`
	Prediction []timeline.Value  `json:"prediction,omitempty"`
	DurationMS int64             `json:"durationMs"`
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

func (s *Server) handleSubmitAPI(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "content type must be application/json"})
		return
	}
	sess := s.sessions.resolve(w, r)

	var req submitRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload: " + err.Error()})
		return
	}

	var intent submission.Intent
	if req.Intent != "" {
		parsed, err := submission.ParseIntent(req.Intent)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		intent = parsed
	}

	raw, err := values.Positional(req.Values)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validateRaw(raw); err != nil {
		s.writeValidationError(w, err)
		return
	}

	outcome, err := submit(r.Context(), sess.router, intent, raw)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: describeFailure(outcome.Intent, err)})
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Intent:     outcome.Intent,
		Values:     outcome.Values,
		Prediction: outcome.Prediction,
		DurationMS: outcome.Duration.Milliseconds(),
	})
}

// validateRaw checks what the tagger does not: enum membership and the
// wire schema, when an OpenAPI document is configured.
func (s *Server) validateRaw(raw map[int]any) error {
	tagged, err := values.Tag(s.set.Descriptors(), raw)
	if err != nil {
		return err
	}
	if s.openapi != nil {
		return s.openapi.Validator().Validate(tagged)
	}
	for idx, descriptor := range s.set.Descriptors() {
		if descriptor.Type == timeline.KindEnum && !descriptor.HasOption(tagged[idx].Text()) {
			return fmt.Errorf("values: position %d: %q is not an option", idx, tagged[idx].Text())
		}
	}
	return nil
}

func (s *Server) writeValidationError(w http.ResponseWriter, err error) {
	mapped := render.MapErrorPayload(s.formModel, map[string][]string{positionKey(err): {err.Error()}})
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:  err.Error(),
		Fields: mapped.Fields,
		Form:   mapped.Form,
	})
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.lookup(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	snapshot, ok := sess.cache.Snapshot()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "submission journal is disabled"})
		return
	}
	sess, ok := s.sessions.lookup(r)
	if !ok {
		writeJSON(w, http.StatusOK, []journal.Entry{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.journal.List(r.Context(), journal.Filter{Session: sess.id, Limit: limit})
	if err != nil {
		s.logger.Error("list submissions failed", "session", sess.id, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "list submissions failed"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if s.openapi == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openapi.Raw())
}

// submit routes to intent when the request named one, otherwise to the
// session's current choice.
func submit(ctx context.Context, router *submission.Router, intent submission.Intent, raw map[int]any) (submission.Outcome, error) {
	if intent == "" {
		return router.Submit(ctx, raw)
	}
	return router.SubmitAs(ctx, intent, raw)
}

func choose(router *submission.Router, intent submission.Intent) {
	switch intent {
	case submission.IntentPredict:
		router.ChoosePredict()
	default:
		router.ChooseTrain()
	}
}

// statusFor maps a submission error to an HTTP status: collaborator and
// shape failures are upstream problems, anything else is the caller's.
func statusFor(err error) int {
	switch {
	case errors.Is(err, submission.ErrTransport), errors.Is(err, timeline.ErrShapeMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

func describeFailure(intent submission.Intent, err error) string {
	service := "training"
	if intent == submission.IntentPredict {
		service = "prediction"
	}
	var statusErr *client.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The %s service answered %d.", service, statusErr.Code)
	case errors.Is(err, submission.ErrTransport):
		return fmt.Sprintf("The %s service could not be reached.", service)
	case errors.Is(err, timeline.ErrShapeMismatch):
		return fmt.Sprintf("The %s service returned values that do not match the form.", service)
	default:
		return err.Error()
	}
}

// positionKey extracts the "position N" a values or timeline error names,
// as a field key understood by render.MapErrorPayload.
func positionKey(err error) string {
	msg := err.Error()
	idx := strings.Index(msg, "position ")
	if idx < 0 {
		return ""
	}
	rest := msg[idx+len("position "):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	return rest[:end]
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
