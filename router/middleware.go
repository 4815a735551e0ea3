package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"

	"github.com/drblury/etlweaver/jsonutil"
	"github.com/drblury/etlweaver/responder"
)

const timeoutMessage = "Service unavailable: request timed out"

// timeoutBody renders the envelope written when a request runs past its
// deadline.
func timeoutBody(traceID string) string {
	body, err := jsonutil.Marshal(responder.ErrorEnvelope{
		Status:  responder.StatusError,
		Message: timeoutMessage,
		TraceID: traceID,
	})
	if err != nil {
		return fmt.Sprintf(`{"status":%q,"message":%q}`, responder.StatusError, timeoutMessage)
	}
	return string(body)
}

// statusRecorder captures the status written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func accessLog(logger *slog.Logger, quietRoutes, redacted []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quietRoutes, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			reqLogger := logger.With("Path", r.URL.Path, "Method", r.Method)
			if r.ContentLength > 0 {
				reqLogger = reqLogger.With("ContentLength", r.ContentLength)
			}
			if reqLogger.Enabled(r.Context(), slog.LevelDebug) {
				reqLogger.DebugContext(r.Context(), "Request", "Header", redact(r.Header, redacted))
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			reqLogger.InfoContext(r.Context(), "Response", "Status", status, "Duration", time.Since(start))
		})
	}
}

// redact returns a copy of headers with the named values replaced by their
// length.
func redact(headers http.Header, names []string) http.Header {
	out := headers.Clone()
	for _, name := range names {
		values, ok := out[name]
		if !ok {
			continue
		}
		n := 0
		for _, v := range values {
			n += len(v)
		}
		out[name] = []string{fmt.Sprintf("[REDACTED - %d bytes]", n)}
	}
	return out
}

func corsHeaders(cfg CORS) Middleware {
	methods := strings.Join(cfg.Methods, ",")
	headers := strings.Join(cfg.Headers, ",")
	anyOrigin := slices.Contains(cfg.Origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if anyOrigin || slices.Contains(cfg.Origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// validateRoutes checks paths, methods, and parameters. Request bodies are
// left to the handlers so malformed JSON is reported in one place.
func validateRoutes(doc *openapi3.T, reject RejectFunc) Middleware {
	doc.Servers = nil

	opts := &oapiMW.Options{
		Options: openapi3filter.Options{
			ExcludeRequestBody: true,
		},
	}
	if reject != nil {
		opts.ErrorHandler = func(w http.ResponseWriter, message string, statusCode int) {
			reject(w, statusCode, message)
		}
	}
	return oapiMW.OapiRequestValidatorWithOptions(doc, opts)
}

// deadline answers 503 with an error envelope once timeout passes.
func deadline(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			http.TimeoutHandler(next, timeout, timeoutBody(responder.NewTraceID())).ServeHTTP(w, r)
		})
	}
}
