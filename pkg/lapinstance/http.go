package lapinstance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// RequestIDHeader carries a unique id per call, the server logs it.
const RequestIDHeader = "X-Request-Id"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, string(e.Body))
}

// HTTPTransport implements Transport on top of net/http.
// Its configuration is fixed at construction time, so it is safe for concurrent use.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
	header     http.Header
	requestID  bool
	logger     *log.Logger
}

var _ Transport = (*HTTPTransport)(nil)

// ClientOption configures the HTTP transport.
type ClientOption func(*HTTPTransport)

// WithHTTPClient replaces the underlying http client.
// The default client has no timeout, use this to set one.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(t *HTTPTransport) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithDefaultHeader adds a header sent with every request. Per-call headers override it.
func WithDefaultHeader(key, value string) ClientOption {
	return func(t *HTTPTransport) {
		t.header.Set(key, value)
	}
}

func WithUserAgent(ua string) ClientOption {
	return WithDefaultHeader("User-Agent", ua)
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) ClientOption {
	return func(t *HTTPTransport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithoutRequestID disables the generated request id header.
func WithoutRequestID() ClientOption {
	return func(t *HTTPTransport) {
		t.requestID = false
	}
}

// NewHTTPTransport creates a transport for the API rooted at baseURL.
func NewHTTPTransport(baseURL string, opts ...ClientOption) (*HTTPTransport, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: expected http(s)://host[/path]", baseURL)
	}

	t := &HTTPTransport{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		header:     make(http.Header),
		requestID:  true,
		logger:     log.Default().WithPrefix("lapinstance"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// BaseURL returns the API root the transport was created with.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

// Do performs the request. Non-2xx responses are reported as *StatusError.
func (t *HTTPTransport) Do(ctx context.Context, r *Request) (*RawResponse, error) {
	reqURL := t.baseURL + r.URL
	if len(r.Query) > 0 {
		reqURL += "?" + r.Query.Encode()
	}

	var reqBody io.Reader
	if r.Body != nil {
		jsonBody, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.requestID {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	for k, v := range t.header {
		req.Header[k] = slices.Clone(v)
	}
	for k, v := range r.Header {
		req.Header[k] = slices.Clone(v)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	t.logger.Debug("request done",
		"method", r.Method,
		"url", reqURL,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(RequestIDHeader),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
