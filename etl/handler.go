package etl

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/drblury/etlweaver/responder"
	"github.com/drblury/etlweaver/transform"
)

// DefaultMaxBodyBytes bounds request bodies unless WithMaxBodyBytes says otherwise.
const DefaultMaxBodyBytes int64 = 1 << 20

// errNotObject is returned for well-formed JSON whose top level is not an object.
var errNotObject = errors.New("expected a JSON object")

// Normalizer is the subset of *transform.Transformer used by the Handler.
type Normalizer interface {
	Normalize(payload map[string]any) (transform.Result, error)
}

// Option configures a Handler.
type Option func(*Handler)

// Handler answers POST requests on the service root.
type Handler struct {
	*responder.Responder
	normalizer   Normalizer
	now          func() time.Time
	maxBodyBytes int64
}

// NewHandler returns a Handler using a default responder and transformer.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		Responder:    responder.New(responder.WithClassifier(ClassifyError)),
		normalizer:   transform.New(),
		now:          time.Now,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// WithResponder shares a responder, typically one carrying the service logger.
func WithResponder(r *responder.Responder) Option {
	return func(h *Handler) {
		if r != nil {
			h.Responder = r
		}
	}
}

// WithNormalizer replaces the transformer.
func WithNormalizer(n Normalizer) Option {
	return func(h *Handler) {
		if n != nil {
			h.normalizer = n
		}
	}
}

// WithClock overrides the clock used for the envelope timestamp.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithMaxBodyBytes limits the accepted body size. Non-positive values disable the limit.
func WithMaxBodyBytes(limit int64) Option {
	return func(h *Handler) {
		h.maxBodyBytes = limit
	}
}

// ClassifyError maps transform failures to HTTP 500. It is meant for
// responder.WithClassifier; unclassified errors also end up as 500.
func ClassifyError(err error) (int, bool) {
	if errors.Is(err, transform.ErrCoercion) || errors.Is(err, transform.ErrShape) {
		return http.StatusInternalServerError, true
	}
	return 0, false
}

// Register mounts the transform endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("POST /{$}", h)
}

// ServeHTTP handles a single transform request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if recovered := recover(); recovered != nil {
			h.HandleInternalServerError(w, r, fmt.Errorf("panic: %v", recovered), "recovered from panic")
		}
	}()

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var body any
	if !h.ReadRequestBody(w, r, &body) {
		return
	}

	payload, ok := body.(map[string]any)
	if !ok {
		h.HandleBadRequestError(w, r, fmt.Errorf("%w, got %s", errNotObject, transform.Kind(body)), "rejected non-object payload")
		return
	}

	result, err := h.normalizer.Normalize(payload)
	if err != nil {
		h.HandleErrors(w, r, err, "normalization failed")
		return
	}

	h.Logger().InfoContext(r.Context(), "payload transformed", "records", len(result.Items))
	h.RespondWithJSON(w, r, http.StatusOK, Envelope{
		Status:           StatusSuccess,
		Timestamp:        h.now().UTC().Format(time.RFC3339Nano),
		RecordsProcessed: len(result.Items),
		Data:             result,
	})
}
