package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Operator identifies the POS operator on Wispay transactions.
type Operator struct {
	EmpID    string
	Username string
}

// Config is threaded into the client explicitly; nothing here is read from
// the environment at call time.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Operator Operator
}

// Client is the typed HTTP client for the external POS backend. All outbound
// requests share one circuit breaker so a dead backend trips fast instead of
// piling up timeouts on every terminal.
type Client struct {
	base     string
	operator Operator
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	log      *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "pos-backend",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		base:     cfg.BaseURL,
		operator: cfg.Operator,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		log:     log,
	}
}

// APIError is a non-2xx backend response with its surfaced message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorEnvelope is the backend's error body shape.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do sends a request through the circuit breaker and decodes the JSON
// response into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, contentType string, body []byte, out any) error {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("backend request failed: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("backend response read failed: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, apiError(resp.StatusCode, raw)
		}
		return raw, nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend response decode failed: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", body, out)
}

func jsonBody(in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("request encode failed: %w", err)
	}
	return body, nil
}

func apiError(status int, raw []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		return &APIError{Status: status, Message: env.Error}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("backend returned status %d", status)}
}
