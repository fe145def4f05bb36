// Package upstream holds the HTTP transport shared by the history, prediction
// and tracking clients, plus the error taxonomy they report with.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response ends up in an error message.
const maxErrorBody = 2048

// Transport issues JSON requests with the optional bearer token and a request
// id that is stable for the whole run.
type Transport struct {
	token      string
	requestID  string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		t.httpClient = c
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.httpClient.Timeout = d
		}
	}
}

// WithRequestID pins the X-Request-ID header instead of generating one.
func WithRequestID(id string) Option {
	return func(t *Transport) {
		t.requestID = id
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		t.userAgent = ua
	}
}

// NewTransport creates a Transport. An empty token sends no Authorization header.
func NewTransport(token string, opts ...Option) *Transport {
	t := &Transport{
		token:     token,
		requestID: uuid.NewString(),
		userAgent: "build-predictor",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RequestID returns the X-Request-ID sent with every request.
func (t *Transport) RequestID() string {
	return t.requestID
}

// GetJSON performs a GET and decodes the JSON response into out.
func (t *Transport) GetJSON(ctx context.Context, service, url string, out any) error {
	return t.do(ctx, service, http.MethodGet, url, nil, out)
}

// PostJSON encodes body as JSON, POSTs it and decodes the response into out.
// A nil out discards the response body.
func (t *Transport) PostJSON(ctx context.Context, service, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", service, err)
	}
	return t.do(ctx, service, http.MethodPost, url, payload, out)
}

func (t *Transport) do(ctx context.Context, service, method, url string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", service, err)
	}

	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("X-Request-ID", t.requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %s %s: %w", service, method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Service:    service,
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(errBody)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", service, err)
	}

	return nil
}
