package router_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/drblury/etlweaver/router"
)

func ExampleNew() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"healthy"}`)
	})

	h := router.New(mux,
		router.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		router.WithTimeout(2*time.Second),
		router.WithCORS(router.CORS{
			Origins: []string{"https://app.example.com"},
			Methods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			Headers: []string{"Content-Type"},
		}),
		router.WithRedactedHeaders("Authorization"),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	fmt.Println(rec.Header().Get("Access-Control-Allow-Origin"))
	fmt.Println(strings.TrimSpace(rec.Body.String()))

	// Output:
	// https://app.example.com
	// {"status":"healthy"}
}
