// HTTP transport for the music-review API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "http://localhost:8080/api/v1"
	requestIDHeader = "X-Request-ID"
)

// ResponseKind classifies a successful response body.
type ResponseKind int

const (
	KindEmpty ResponseKind = iota // no usable body (e.g. 204)
	KindJSON                      // body parsed as JSON
	KindText                      // non-JSON content type with a non-empty body
)

// Response is the normalized result of a successful request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Kind       ResponseKind
	JSONData   any
}

// Text returns the raw body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Decode unmarshals a JSON body into out. Empty and text responses leave out untouched.
func (r *Response) Decode(out any) error {
	if r.Kind != KindJSON || out == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL           string
	HTTPClient        *http.Client
	Logger            *log.Logger
	Timeout           time.Duration // zero waits indefinitely
	RequestsPerSecond float64       // zero disables limiting
}

// Client issues JSON requests against a fixed base address and normalizes responses and errors.
//
// There are no retries and no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a new transport client for the review API.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     shared.WithLogger(opts.Logger, "component", "transport"),
		timeout:    opts.Timeout,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// BaseURL returns the address every endpoint is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send performs a request and returns the normalized response. Redirects are followed by the
// underlying [http.Client], so only the terminal status is judged.
//
// A nil body sends no payload and no content type. A non-2xx terminal status yields an [*APIError]
// whose message is taken from the JSON "error" field, then "message", then the raw body text,
// then [FallbackErrorMessage].
func (c *Client) Send(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &NetworkError{Op: "failed to encode request", Err: err}
		}
		payload = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Op: "rate limit wait", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, payload)
	if err != nil {
		return nil, &NetworkError{Op: "failed to create request", Err: err}
	}

	requestID := shared.GenerateID()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "endpoint", endpoint, "request_id", requestID, "error", err)
		return nil, &NetworkError{Op: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "failed to read response", Err: err}
	}

	c.logger.Debug("request complete",
		"method", method, "endpoint", endpoint, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	var parsed any
	isJSON := len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(parsed, isJSON, raw)}
		c.logger.Warn("request rejected", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "request_id", requestID, "error", apiErr.Message)
		return nil, apiErr
	}

	result := &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: raw}
	switch {
	case isJSON:
		result.Kind = KindJSON
		result.JSONData = parsed
	case len(raw) > 0 && !strings.Contains(resp.Header.Get("Content-Type"), "application/json"):
		result.Kind = KindText
	default:
		result.Kind = KindEmpty
	}

	return result, nil
}

// Do sends a request and decodes a JSON response into out.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.Send(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// errorMessage picks exactly one message for a failed response, first present wins.
func errorMessage(parsed any, isJSON bool, raw []byte) string {
	if isJSON {
		if obj, ok := parsed.(map[string]any); ok {
			for _, key := range []string{"error", "message"} {
				if msg, ok := obj[key].(string); ok && msg != "" {
					return msg
				}
			}
		}
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return FallbackErrorMessage
}
