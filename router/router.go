package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultTimeout bounds a request when WithTimeout is not given.
const DefaultTimeout = 30 * time.Second

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// RejectFunc renders a request the OpenAPI validator refused, typically as an
// error envelope.
type RejectFunc func(w http.ResponseWriter, status int, message string)

// Option configures New.
type Option func(*chain)

// CORS lists the allowed origins, methods, and headers. An empty Origins list
// turns CORS handling off.
type CORS struct {
	Origins          []string
	Methods          []string
	Headers          []string
	AllowCredentials bool
}

type chain struct {
	logger      *slog.Logger
	document    *openapi3.T
	reject      RejectFunc
	timeout     time.Duration
	cors        CORS
	quietRoutes []string
	redacted    []string
	inner       []Middleware
}

// WithLogger sets the access log destination. A nil logger disables access
// logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *chain) {
		c.logger = logger
	}
}

// WithDocument enables OpenAPI route and parameter validation against doc.
// The document's servers list is cleared so validation does not depend on the
// host the service is reached through.
func WithDocument(doc *openapi3.T) Option {
	return func(c *chain) {
		c.document = doc
	}
}

// WithReject sets how validation failures are written.
func WithReject(reject RejectFunc) Option {
	return func(c *chain) {
		c.reject = reject
	}
}

// WithTimeout bounds each request. Zero or less disables the deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *chain) {
		c.timeout = timeout
	}
}

// WithCORS answers cross-origin requests from the listed origins. An empty
// origin list leaves CORS off.
func WithCORS(cors CORS) Option {
	return func(c *chain) {
		c.cors = CORS{
			Origins:          slices.Clone(cors.Origins),
			Methods:          slices.Clone(cors.Methods),
			Headers:          slices.Clone(cors.Headers),
			AllowCredentials: cors.AllowCredentials,
		}
	}
}

// WithQuietRoutes keeps paths such as probes out of the access log.
func WithQuietRoutes(paths ...string) Option {
	return func(c *chain) {
		c.quietRoutes = append(c.quietRoutes, paths...)
	}
}

// WithRedactedHeaders masks header values in debug request logs.
func WithRedactedHeaders(headers ...string) Option {
	return func(c *chain) {
		for _, h := range headers {
			c.redacted = append(c.redacted, http.CanonicalHeaderKey(h))
		}
	}
}

// WithMiddlewares adds middlewares between the built-in chain and the
// handler, in the order given.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(c *chain) {
		c.inner = append(c.inner, middlewares...)
	}
}

// New wraps handler with the configured middlewares. It panics on a nil
// handler.
func New(handler http.Handler, opts ...Option) http.Handler {
	if handler == nil {
		panic("router: handler cannot be nil")
	}

	c := &chain{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return wrap(handler, c.middlewares())
}

func (c *chain) middlewares() []Middleware {
	var mws []Middleware
	if c.logger != nil {
		mws = append(mws, accessLog(c.logger, c.quietRoutes, c.redacted))
	}
	if len(c.cors.Origins) > 0 {
		mws = append(mws, corsHeaders(c.cors))
	}
	if c.document != nil {
		mws = append(mws, validateRoutes(c.document, c.reject))
	}
	if c.timeout > 0 {
		mws = append(mws, deadline(c.timeout))
	}
	return append(mws, c.inner...)
}

// wrap applies middlewares so the first one is outermost.
func wrap(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			handler = middlewares[i](handler)
		}
	}
	return handler
}
