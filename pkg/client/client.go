// Package client talks to the training and prediction services over HTTP.
// Both endpoints accept a JSON array of tagged values; the prediction
// endpoint answers with another such array.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

const (
	TrainPath   = "/push_data"
	PredictPath = "/predict"

	maxErrorBody = 4 << 10
)

// Validator checks a decoded prediction before it is returned.
type Validator interface {
	Validate(values []timeline.Value) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the http.Client used for requests. Timeouts are
// whatever that client enforces.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithValidator validates prediction responses.
func WithValidator(validator Validator) Option {
	return func(c *Client) {
		c.validator = validator
	}
}

// WithUserAgent sets the User-Agent header on outbound requests.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// Client implements the Trainer and Predictor collaborators over HTTP. It
// never retries.
type Client struct {
	trainURL   string
	predictURL string
	http       *http.Client
	validator  Validator
	userAgent  string
}

// New returns a client for the given service base addresses. The bases are
// opaque: a trailing slash is trimmed and the fixed paths appended.
func New(trainingBase, predictionBase string, options ...Option) *Client {
	c := &Client{
		trainURL:   endpoint(trainingBase, TrainPath),
		predictURL: endpoint(predictionBase, PredictPath),
		http:       http.DefaultClient,
		userAgent:  "go-timelineform",
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func endpoint(base, path string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/") + path
}

// TrainURL returns the training endpoint.
func (c *Client) TrainURL() string {
	return c.trainURL
}

// PredictURL returns the prediction endpoint.
func (c *Client) PredictURL() string {
	return c.predictURL
}

// Train posts values to the training endpoint. Any 2xx status is success and
// the response body is ignored.
func (c *Client) Train(ctx context.Context, values []timeline.Value) error {
	resp, err := c.post(ctx, c.trainURL, values)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Predict posts values to the prediction endpoint and decodes the returned
// tagged value array.
func (c *Client) Predict(ctx context.Context, values []timeline.Value) ([]timeline.Value, error) {
	resp, err := c.post(ctx, c.predictURL, values)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out []timeline.Value
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("client: decode %s response: %w", c.predictURL, err)
	}
	if c.validator != nil {
		if err := c.validator.Validate(out); err != nil {
			return nil, fmt.Errorf("client: invalid %s response: %w", c.predictURL, err)
		}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, values []timeline.Value) (*http.Response, error) {
	if values == nil {
		values = []timeline.Value{}
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("client: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: post %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Endpoint: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}
