package info

import (
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/drblury/etlweaver/probe"
	"github.com/drblury/etlweaver/responder"
)

const defaultProbeTimeout = 2 * time.Second

var errNoDocument = errors.New("openapi document not configured")

// DocumentFunc returns the raw OpenAPI document served at /openapi.json.
type DocumentFunc func() ([]byte, error)

// Option configures a Handler.
type Option func(*Handler)

// Handler serves the health responder and the operational endpoints around
// it. Liveness checks guard /healthz only; GET / never runs a check.
type Handler struct {
	*responder.Responder
	baseURL      string
	title        string
	build        BuildInfo
	document     DocumentFunc
	docsTemplate *template.Template
	probeTimeout time.Duration
	liveness     []probe.Func
	readiness    []probe.Func
}

// New returns a Handler with an empty build payload and no checks.
func New(opts ...Option) *Handler {
	h := &Handler{
		Responder:    responder.New(),
		title:        "etlweaver API",
		document:     func() ([]byte, error) { return nil, errNoDocument },
		docsTemplate: docsTemplate,
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// WithResponder shares r with the other handlers of the service.
func WithResponder(r *responder.Responder) Option {
	return func(h *Handler) {
		if r != nil {
			h.Responder = r
		}
	}
}

// WithBaseURL prefixes the document URL the docs page loads. Leave it empty
// when the viewer is served from the same origin.
func WithBaseURL(baseURL string) Option {
	return func(h *Handler) {
		h.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTitle sets the page title of the docs viewer.
func WithTitle(title string) Option {
	return func(h *Handler) {
		if title != "" {
			h.title = title
		}
	}
}

// WithBuildInfo sets the payload of GET /version.
func WithBuildInfo(build BuildInfo) Option {
	return func(h *Handler) {
		h.build = build
	}
}

// WithDocument sets the source of GET /openapi.json.
func WithDocument(document DocumentFunc) Option {
	return func(h *Handler) {
		if document != nil {
			h.document = document
		}
	}
}

// WithDocsTemplate replaces the viewer page. The template receives a DocsPage.
func WithDocsTemplate(tmpl *template.Template) Option {
	return func(h *Handler) {
		if tmpl != nil {
			h.docsTemplate = tmpl
		}
	}
}

// WithProbeTimeout bounds a whole probe round. Non-positive values are ignored.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the checks behind /healthz.
func WithLivenessChecks(checks ...probe.Func) Option {
	return func(h *Handler) {
		h.liveness = compactChecks(checks)
	}
}

// WithReadinessChecks replaces the checks behind /readyz.
func WithReadinessChecks(checks ...probe.Func) Option {
	return func(h *Handler) {
		h.readiness = compactChecks(checks)
	}
}
