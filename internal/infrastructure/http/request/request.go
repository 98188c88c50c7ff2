package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcomes reported to an Observer.
const (
	OutcomeSuccess     = "success"
	OutcomeTransport   = "transport"
	OutcomeAborted     = "aborted"
	OutcomeStatus      = "status"
	OutcomeApplication = "application"
	OutcomeDecode      = "decode"
	OutcomeInvalid     = "invalid"
)

// Observer receives one report per call once it settles.
type Observer interface {
	ObserveRequest(method, path, outcome string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveRequest(string, string, string, time.Duration) {}

// Envelope is the {code, data, message} wrapper every backend response carries.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

type rawEnvelope struct {
	Code    json.RawMessage `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message json.RawMessage `json:"message"`
}

// Call describes a single request. Zero fields fall back to the Client's Config.
type Call struct {
	Method  string
	Body    any
	Params  Params
	Header  http.Header
	Timeout time.Duration
}

// Client sends calls to the backend and unwraps the response envelope.
// It is safe for concurrent use; calls are independent of each other.
type Client struct {
	cfg      Config
	http     *http.Client
	tokens   TokenProvider
	observer Observer
	logger   *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) { c.tokens = p }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg.normalized(),
		http:     &http.Client{},
		tokens:   noToken{},
		observer: noopObserver{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Config() Config {
	return c.cfg
}

// Send performs one round trip and decodes the envelope's data into T.
func Send[T any](ctx context.Context, c *Client, path string, call Call) (*Envelope[T], error) {
	out := new(Envelope[T])
	code, message, err := c.send(ctx, path, call, &out.Data)
	if err != nil {
		return nil, err
	}
	out.Code = code
	out.Message = message
	return out, nil
}

func Get[T any](ctx context.Context, c *Client, path string, params Params) (*Envelope[T], error) {
	return Send[T](ctx, c, path, Call{Method: http.MethodGet, Params: params})
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return Send[T](ctx, c, path, Call{Method: http.MethodPost, Body: body})
}

func Put[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return Send[T](ctx, c, path, Call{Method: http.MethodPut, Body: body})
}

func Delete[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return Send[T](ctx, c, path, Call{Method: http.MethodDelete, Body: body})
}

func (c *Client) send(ctx context.Context, path string, call Call, into any) (code int, message string, err error) {
	method := strings.ToUpper(call.Method)
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	outcome := OutcomeSuccess
	defer func() {
		c.observer.ObserveRequest(method, path, outcome, time.Since(start))
		if err != nil {
			c.logger.Warn("request failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.String("outcome", outcome),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
		}
	}()

	timeout := call.Timeout
	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}
	// cancel disarms the timer on every return path.
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, path, call)
	if err != nil {
		outcome = OutcomeInvalid
		return 0, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome, err = c.classify(ctx, method, path, timeout, err)
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = OutcomeStatus
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, "", &StatusError{StatusCode: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome, err = c.classify(ctx, method, path, timeout, err)
		return 0, "", err
	}

	code, message, err = decodeEnvelope(payload, c.cfg.SuccessCode, into)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			outcome = OutcomeApplication
		} else {
			outcome = OutcomeDecode
		}
		return 0, "", err
	}

	c.logger.Debug("request succeeded",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("code", code),
		zap.Duration("elapsed", time.Since(start)))
	return code, message, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, call Call) (*http.Request, error) {
	var body io.Reader
	if call.Body != nil {
		if method == http.MethodGet {
			c.logger.Debug("dropping body on GET request", zap.String("path", path))
		} else {
			encoded, err := json.Marshal(call.Body)
			if err != nil {
				return nil, fmt.Errorf("request: encode body: %w", err)
			}
			body = bytes.NewReader(encoded)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, BuildURL(c.cfg.BaseURL, path, call.Params), body)
	if err != nil {
		return nil, fmt.Errorf("request: create request: %w", err)
	}

	req.Header = c.cfg.Headers.Clone()
	for key, values := range call.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("request: read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.cfg.RequestIDHeader != "" {
		req.Header.Set(c.cfg.RequestIDHeader, uuid.NewString())
	}

	c.logger.Debug("sending request",
		zap.String("method", method),
		zap.String("url", req.URL.String()),
		zap.Bool("token_present", token != ""))
	return req, nil
}

// classify separates an aborted exchange from a plain transport failure.
func (c *Client) classify(ctx context.Context, method, path string, timeout time.Duration, cause error) (string, error) {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return OutcomeAborted, fmt.Errorf("%w: %s %s: timeout after %s", ErrAborted, method, path, timeout)
	case ctx.Err() != nil:
		return OutcomeAborted, fmt.Errorf("%w: %s %s: %v", ErrAborted, method, path, ctx.Err())
	default:
		return OutcomeTransport, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, cause)
	}
}

func decodeEnvelope(payload []byte, successCode int, into any) (int, string, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(payload, &raw); err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var message string
	if present(raw.Message) {
		// A non-string message is treated as absent.
		_ = json.Unmarshal(raw.Message, &message)
	}

	var code int
	if present(raw.Code) {
		var n float64
		if err := json.Unmarshal(raw.Code, &n); err == nil {
			if n != math.Trunc(n) || int(n) != successCode {
				return 0, "", &APIError{Code: int(n), Message: message}
			}
			code = int(n)
		}
	}

	if into != nil && present(raw.Data) {
		if err := json.Unmarshal(raw.Data, into); err != nil {
			return 0, "", fmt.Errorf("%w: data: %v", ErrDecode, err)
		}
	}
	return code, message, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
