package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/sirupsen/logrus"

	"github.com/helmcode/casediag/pkg/auth"
	"github.com/helmcode/casediag/pkg/logging"
)

// APIError is a non-2xx answer from a service
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client talks to one service base URL
type Client struct {
	baseURL  string
	http     *http.Client
	executor failsafe.Executor[*http.Response]
	logger   *logrus.Logger
}

type Option func(*Client)

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		executor: NewHTTPExecutor(DefaultExecutorConfig()),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

func WithExecutorConfig(cfg ExecutorConfig) Option {
	return func(c *Client) {
		c.executor = NewHTTPExecutor(cfg)
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// BaseURL returns the service root the client was built for
func (c *Client) BaseURL() string {
	return c.baseURL
}

// send performs the request with retries and returns the body of a 2xx
// answer. The payload is replayed on every attempt.
func (c *Client) send(ctx context.Context, cred auth.Credential, method, path, contentType string, payload []byte) ([]byte, error) {
	url := c.baseURL + path
	attempt := 0
	var last *http.Response

	resp, err := executeHTTP(ctx, c.executor, func() (*http.Response, error) {
		attempt++
		last = nil

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if header := cred.Header(); header != "" {
			req.Header.Set("Authorization", header)
		}

		fields := logging.Fields{"method": method, "path": path, "attempt": attempt}
		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.WithFields(fields).WithError(err).Debug("Request failed")
			return nil, err
		}

		// buffer the body so a retried response can still be read afterwards
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		resp.Body = io.NopCloser(bytes.NewReader(data))

		fields["status"] = resp.StatusCode
		c.logger.WithFields(fields).Debug("Request completed")
		last = resp
		return resp, nil
	})
	if err != nil {
		if last == nil || ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", method, url, err)
		}
		resp = last
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, cred auth.Credential, path string, out interface{}) error {
	data, err := c.send(ctx, cred, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func (c *Client) postJSON(ctx context.Context, cred auth.Credential, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	data, err := c.send(ctx, cred, http.MethodPost, path, "application/json", payload)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func decode(data []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage reads the message or error field of a JSON error body
func errorMessage(data []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	text := strings.TrimSpace(string(data))
	if text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// messageResponse is the {"message": ...} acknowledgement the services send
type messageResponse struct {
	Message string `json:"message"`
}
