package lapinstance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
)

// Transport issues a single HTTP request.
// Implementations perform exactly one attempt and report failures unchanged.
type Transport interface {
	Do(ctx context.Context, req *Request) (*RawResponse, error)
}

// Request describes a single API call.
type Request struct {
	Method string
	// URL is the escaped path relative to the base URL of the transport.
	URL    string
	Query  url.Values
	Body   any
	Header http.Header

	transform any
}

// RawResponse is the undecoded result of a successful call.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Response is a decoded API response.
type Response[R any] struct {
	Data R
	// Original holds the body as received when a transform was applied, nil otherwise.
	Original   *R
	StatusCode int
	Header     http.Header
}

// RequestOption customizes a single call. Options are applied after the
// request has been built, so they win over computed values.
type RequestOption func(*Request)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(key, value)
	}
}

// WithQuery sets a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(url.Values)
		}
		r.Query.Set(key, value)
	}
}

// WithTransform registers a function applied to the decoded response body.
// It is only called when the response has a body. R must match the response
// type of the operation it is passed to.
func WithTransform[R any](fn func(R) R) RequestOption {
	return func(r *Request) {
		r.transform = fn
	}
}

// NewRequest builds a request descriptor and applies opts on top of it.
// The query values are copied, opts never modify the caller's map.
func NewRequest(method, url string, query url.Values, body any, opts ...RequestOption) *Request {
	req := &Request{
		Method: method,
		URL:    url,
		Query:  maps.Clone(query),
		Body:   body,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(req)
		}
	}
	return req
}

func isEmptyBody(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) == 0 || bytes.Equal(body, []byte("null"))
}

func decode[R any](op Operation, raw *RawResponse, transform any) (*Response[R], error) {
	resp := &Response[R]{
		StatusCode: raw.StatusCode,
		Header:     raw.Header,
	}

	var fn func(R) R
	if transform != nil {
		var ok bool
		if fn, ok = transform.(func(R) R); !ok {
			return nil, fmt.Errorf("transform %T does not match %s response type %T", transform, op, resp.Data)
		}
	}

	if isEmptyBody(raw.Body) {
		return resp, nil
	}

	if err := json.Unmarshal(raw.Body, &resp.Data); err != nil {
		return nil, fmt.Errorf("error decoding %s response: %w", op, err)
	}

	if fn == nil {
		return resp, nil
	}

	// decode a second copy so the transform can't reach into the original
	var original R
	if err := json.Unmarshal(raw.Body, &original); err != nil {
		return nil, fmt.Errorf("error decoding %s response: %w", op, err)
	}
	resp.Original = &original
	resp.Data = fn(resp.Data)

	return resp, nil
}
