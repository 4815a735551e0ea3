package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPOption configures HTTP.
type HTTPOption func(*httpCheck)

type httpCheck struct {
	method   string
	client   HTTPDoer
	header   http.Header
	statuses []int
}

// WithMethod overrides the default GET.
func WithMethod(method string) HTTPOption {
	return func(c *httpCheck) {
		if m := strings.ToUpper(strings.TrimSpace(method)); m != "" {
			c.method = m
		}
	}
}

// WithClient sets the client used for the request. Use it to bound each
// attempt with http.Client.Timeout.
func WithClient(client HTTPDoer) HTTPOption {
	return func(c *httpCheck) {
		if client != nil {
			c.client = client
		}
	}
}

// WithBearerToken authenticates against the upstream API. A blank token sends
// no Authorization header.
func WithBearerToken(token string) HTTPOption {
	return func(c *httpCheck) {
		if token = strings.TrimSpace(token); token != "" {
			c.header.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithHeader sets an arbitrary request header, such as User-Agent.
func WithHeader(key, value string) HTTPOption {
	return func(c *httpCheck) {
		c.header.Set(key, value)
	}
}

// WithStatuses limits success to the listed codes instead of any 2xx.
func WithStatuses(statuses ...int) HTTPOption {
	return func(c *httpCheck) {
		c.statuses = slices.Clone(statuses)
	}
}

func (c *httpCheck) accepts(status int) bool {
	if len(c.statuses) == 0 {
		return status >= 200 && status < 300
	}
	return slices.Contains(c.statuses, status)
}

// HTTP calls target and succeeds on a 2xx answer. The body is drained so the
// connection returns to the pool.
func HTTP(component, target string, opts ...HTTPOption) Func {
	check := &httpCheck{
		method: http.MethodGet,
		client: http.DefaultClient,
		header: make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(check)
		}
	}
	target = strings.TrimSpace(target)

	return func(ctx context.Context) error {
		if target == "" {
			return fail(component, errors.New("target URL is required"))
		}

		req, err := http.NewRequestWithContext(orBackground(ctx), check.method, target, nil)
		if err != nil {
			return fail(component, fmt.Errorf("build request: %w", err))
		}
		for key, values := range check.header {
			req.Header[key] = slices.Clone(values)
		}

		resp, err := check.client.Do(req)
		if err != nil {
			return fail(component, err)
		}
		defer resp.Body.Close()

		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return fail(component, fmt.Errorf("drain response: %w", err))
		}
		if !check.accepts(resp.StatusCode) {
			return fail(component, fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
		}
		return nil
	}
}
