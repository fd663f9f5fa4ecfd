package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxErrorBody = 1 << 20

// Session supplies the bearer token and is told when the API rejects it.
type Session interface {
	Token() string
	Expire(token string)
}

// Client is the single entry point to the Remote Procurement API. Every
// accessor goes through do: token check, bearer header, typed decode or a
// classified error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	fixedToken *string
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSession attaches the session after construction; the session itself
// usually needs the client for login.
func (c *Client) SetSession(s Session) {
	c.session = s
}

// WithToken returns a copy that always authenticates with token and never
// notifies a session on 401.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.session = nil
	cp.fixedToken = &token
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) token() string {
	if c.fixedToken != nil {
		return *c.fixedToken
	}
	if c.session != nil {
		return c.session.Token()
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	token := ""
	if auth {
		token = c.token()
		if token == "" {
			return ErrAuthRequired
		}
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send executes req and classifies the outcome. On success the caller owns
// resp.Body.
func (c *Client) send(req *http.Request, token string) (*http.Response, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, &NetworkError{Op: req.Method + " " + req.URL.Path, Err: err}
	}

	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if token != "" && c.session != nil {
			c.session.Expire(token)
		}
		msg := readMessage(resp)
		if msg == "" || msg == http.StatusText(http.StatusUnauthorized) {
			msg = ErrSessionExpired.Error()
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	msg := readMessage(resp)
	if msg == "" {
		msg = fmt.Sprintf("http status %d", resp.StatusCode)
	}
	return nil, &APIError{Status: resp.StatusCode, Message: msg}
}

// readMessage prefers the JSON "message" (or "error") field and falls back
// to the HTTP status text.
func readMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}

// call is the generic form of do for accessors returning one envelope.
func call[T any](ctx context.Context, c *Client, method, path string, in any) (T, error) {
	var out T
	err := c.do(ctx, method, path, in, &out, true)
	return out, err
}

// MessageResponse is the body of delete and auth helper endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
