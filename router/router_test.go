package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/etlweaver/jsonutil"
	"github.com/drblury/etlweaver/responder"
)

const testDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "test", "version": "1.0.0"},
  "servers": [{"url": "https://etl.example.com"}],
  "paths": {
    "/": {
      "get": {"responses": {"200": {"description": "ok"}}},
      "post": {"responses": {"200": {"description": "ok"}}}
    }
  }
}`

func loadTestDocument(t *testing.T) *openapi3.T {
	t.Helper()

	doc, err := openapi3.NewLoader().LoadFromData([]byte(testDocument))
	if err != nil {
		t.Fatalf("failed to load test document: %v", err)
	}
	return doc
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func recordingMiddleware(label string, sink *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*sink = append(*sink, label+"-before")
			next.ServeHTTP(w, r)
			*sink = append(*sink, label+"-after")
		})
	}
}

func TestNewRunsExtraMiddlewaresInOrder(t *testing.T) {
	var order []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusNoContent)
	})

	h := New(handler,
		WithLogger(nil),
		WithTimeout(0),
		WithMiddlewares(recordingMiddleware("one", &order), recordingMiddleware("two", &order)),
	)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	expected := []string{"one-before", "two-before", "handler", "two-after", "one-after"}
	if !reflect.DeepEqual(order, expected) {
		t.Fatalf("unexpected middleware order: got %v, want %v", order, expected)
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected response code: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := New(handler, WithLogger(nil), WithCORS(CORS{
		Origins:          []string{"https://app.example.com"},
		Methods:          []string{http.MethodGet, http.MethodPost},
		Headers:          []string{"Content-Type"},
		AllowCredentials: true,
	}))

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("unexpected status code: got %d want %d", rr.Code, http.StatusNoContent)
		}
		want := map[string]string{
			"Access-Control-Allow-Origin":      "https://app.example.com",
			"Access-Control-Allow-Methods":     "GET,POST",
			"Access-Control-Allow-Headers":     "Content-Type",
			"Access-Control-Allow-Credentials": "true",
		}
		for key, value := range want {
			if got := rr.Header().Get(key); got != value {
				t.Fatalf("%s: got %q want %q", key, got, value)
			}
		}
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Fatal("expected no allow origin header")
		}
		if rr.Code != http.StatusOK {
			t.Fatalf("expected request to reach handler, got %d", rr.Code)
		}
	})

	t.Run("no origins disables cors", func(t *testing.T) {
		plain := New(handler, WithLogger(nil), WithCORS(CORS{}))
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		plain.ServeHTTP(rr, req)

		if rr.Header().Get("Access-Control-Allow-Origin") != "" || rr.Code != http.StatusOK {
			t.Fatalf("expected preflight to pass through, got %d %v", rr.Code, rr.Header())
		}
	})
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	New(slow, WithLogger(nil), WithTimeout(time.Millisecond)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected timeout to fire, got %d", rr.Code)
	}
	first := decodeTimeoutEnvelope(t, rr.Body.Bytes())
	if first.Status != responder.StatusError || first.Message != timeoutMessage {
		t.Fatalf("expected JSON timeout body, got %q", rr.Body.String())
	}
	if first.TraceID == "" {
		t.Fatal("expected trace id on the timeout envelope")
	}

	rr = httptest.NewRecorder()
	New(slow, WithLogger(nil), WithTimeout(time.Millisecond)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if second := decodeTimeoutEnvelope(t, rr.Body.Bytes()); second.TraceID == first.TraceID {
		t.Fatalf("expected a fresh trace id per request, got %q twice", first.TraceID)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	rr = httptest.NewRecorder()
	New(slow, WithLogger(nil), WithTimeout(0)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected handler to complete without a deadline, got %d", rr.Code)
	}
}

func decodeTimeoutEnvelope(t *testing.T, body []byte) responder.ErrorEnvelope {
	t.Helper()
	var envelope responder.ErrorEnvelope
	if err := jsonutil.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to decode timeout body %q: %v", body, err)
	}
	return envelope
}

func TestTimeoutKeepsHandlerContentType(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<p>docs</p>")
	})

	rr := httptest.NewRecorder()
	New(handler, WithLogger(nil)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/docs", nil))

	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestRouteValidation(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	var rejected []int
	h := New(handler,
		WithLogger(nil),
		WithDocument(loadTestDocument(t)),
		WithReject(func(w http.ResponseWriter, status int, message string) {
			rejected = append(rejected, status)
			w.WriteHeader(status)
		}),
	)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if called {
		t.Fatal("expected handler not to run for an undocumented route")
	}
	if rr.Code != http.StatusNotFound || len(rejected) != 1 {
		t.Fatalf("expected reject func to report 404, got %d (%v)", rr.Code, rejected)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "http://10.0.0.5:8080/?trace=1", strings.NewReader("not json")))
	if !called {
		t.Fatal("expected documented route to reach the handler with a malformed body on any host")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestAccessLog(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	h := New(handler,
		WithLogger(logger),
		WithRedactedHeaders("authorization"),
		WithQuietRoutes("/healthz"),
	)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	h.ServeHTTP(httptest.NewRecorder(), req)

	logged := buf.String()
	if strings.Contains(logged, "secret") {
		t.Fatalf("expected authorization header to be redacted, got %s", logged)
	}
	if !strings.Contains(logged, "[REDACTED - 13 bytes]") {
		t.Fatalf("expected redaction marker, got %s", logged)
	}
	if !strings.Contains(logged, `"Status":400`) {
		t.Fatalf("expected response status to be logged, got %s", logged)
	}
	if req.Header.Get("Authorization") != "Bearer secret" {
		t.Fatal("expected the request header itself to stay intact")
	}

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected quiet route not to be logged, got %s", buf.String())
	}
}

func TestNewPanicsWhenHandlerNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when handler is nil")
		}
	}()

	New(nil, WithLogger(quietLogger()))
}
