package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timelineform/pkg/client"
	"github.com/goliatone/go-timelineform/pkg/testsupport"
	"github.com/goliatone/go-timelineform/pkg/timeline"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestClient_Train(t *testing.T) {
	server, requests := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := client.New(server.URL+"/", server.URL)
	values := []timeline.Value{timeline.IntegerValue(7), timeline.EnumValue("b")}
	if err := c.Train(context.Background(), values); err != nil {
		t.Fatalf("train: %v", err)
	}

	want := []recordedRequest{{
		Method:      http.MethodPost,
		Path:        "/push_data",
		ContentType: "application/json",
		Body:        `[{"Integer":7},{"Enum":"b"}]`,
	}}
	if diff := cmp.Diff(want, requests.all()); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Predict(t *testing.T) {
	server, requests := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(testsupport.SampleValues())
	})

	c := client.New("http://unused.invalid", server.URL)
	got, err := c.Predict(context.Background(), testsupport.SampleValues())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if diff := cmp.Diff(testsupport.SampleValues(), got); diff != "" {
		t.Fatalf("prediction mismatch (-want +got):\n%s", diff)
	}
	if got := requests.all(); len(got) != 1 || got[0].Path != "/predict" {
		t.Fatalf("expected one request to /predict, got %+v", got)
	}
	if c.PredictURL() != server.URL+"/predict" {
		t.Fatalf("unexpected predict url %q", c.PredictURL())
	}
}

func TestClient_StatusError(t *testing.T) {
	server, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not ready", http.StatusBadRequest)
	})

	c := client.New(server.URL, server.URL)
	_, err := c.Predict(context.Background(), testsupport.SampleValues())

	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusBadRequest || statusErr.Body != "model not ready" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
	if !strings.HasSuffix(statusErr.Endpoint, "/predict") {
		t.Fatalf("expected predict endpoint, got %q", statusErr.Endpoint)
	}
}

func TestClient_MalformedPrediction(t *testing.T) {
	server, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"Integer":1,"Float":2}]`)
	})

	c := client.New(server.URL, server.URL)
	if _, err := c.Predict(context.Background(), testsupport.SampleValues()); err == nil {
		t.Fatalf("expected decode error for multi-key element")
	}
}

type rejectAll struct{}

func (rejectAll) Validate([]timeline.Value) error { return errors.New("rejected") }

func TestClient_Validator(t *testing.T) {
	server, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"Integer":1}]`)
	})

	c := client.New(server.URL, server.URL, client.WithValidator(rejectAll{}))
	_, err := c.Predict(context.Background(), []timeline.Value{timeline.IntegerValue(1)})
	if err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("expected validator error, got %v", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c := client.New(base, base)
	if err := c.Train(context.Background(), testsupport.SampleValues()); err == nil {
		t.Fatalf("expected transport error for closed server")
	}
}
