// Package lapinstance is a client for the lapinstance raid planner REST API.
//
// Every method issues exactly one request through a Transport. Nothing is
// cached or retried, failures are returned as reported by the transport.
package lapinstance

import (
	"context"
	"fmt"
)

// Client bundles one client per backend resource, all sharing a transport.
type Client struct {
	transport Transport

	Raids               *RaidClient
	UserCharacters      *UserCharacterClient
	ApplicationSettings *ApplicationSettingsClient
	Users               *UserClient
	Session             *SessionClient
	RaidTypes           *RaidTypeClient
	Roster              *RosterClient
}

// New creates a client for the API at baseURL using the net/http transport.
func New(baseURL string, opts ...ClientOption) (*Client, error) {
	t, err := NewHTTPTransport(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(t), nil
}

// NewWithTransport creates a client on top of an existing transport.
func NewWithTransport(t Transport) *Client {
	r := resource{transport: t}
	return &Client{
		transport:           t,
		Raids:               &RaidClient{r},
		UserCharacters:      &UserCharacterClient{r},
		ApplicationSettings: &ApplicationSettingsClient{r},
		Users:               &UserClient{r},
		Session:             &SessionClient{r},
		RaidTypes:           &RaidTypeClient{r},
		Roster:              &RosterClient{r},
	}
}

// Transport returns the transport shared by all resource clients.
func (c *Client) Transport() Transport {
	return c.transport
}

type resource struct {
	transport Transport
}

func (r resource) newRequest(op Operation, pathArgs []any, body any, opts []RequestOption) (*Request, error) {
	e, ok := Lookup(op)
	if !ok {
		return nil, fmt.Errorf("unknown operation %s", op)
	}
	path, err := e.Expand(pathArgs...)
	if err != nil {
		return nil, err
	}
	if v, ok := body.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return NewRequest(e.Method, path, nil, body, opts...), nil
}

func call[R any](ctx context.Context, r resource, op Operation, pathArgs []any, body any, opts []RequestOption) (*Response[R], error) {
	req, err := r.newRequest(op, pathArgs, body, opts)
	if err != nil {
		return nil, err
	}
	raw, err := r.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return decode[R](op, raw, req.transform)
}

// callVoid is call for operations without a response body.
func callVoid(ctx context.Context, r resource, op Operation, pathArgs []any, body any, opts []RequestOption) error {
	req, err := r.newRequest(op, pathArgs, body, opts)
	if err != nil {
		return err
	}
	_, err = r.transport.Do(ctx, req)
	return err
}

func args(a ...any) []any { return a }
