package info

import (
	"net/http"
)

// GetStatus is the health responder on the service root. It ignores the query
// string and headers and runs no checks.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.respondProbe(w, r, "healthy")
}

// GetHealthz reports liveness.
func (h *Handler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.runChecks(r.Context(), h.liveness); err != nil {
		h.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	h.respondProbe(w, r, "ok")
}

// GetReadyz reports whether the upstream API and the sink are reachable.
func (h *Handler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.runChecks(r.Context(), h.readiness); err != nil {
		h.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	h.respondProbe(w, r, "ready")
}

// GetVersion writes the build information of the running binary.
func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, r, http.StatusOK, h.build)
}

// GetOpenAPIJSON serves the raw OpenAPI document.
func (h *Handler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := h.document()
	if err != nil {
		h.HandleInternalServerError(w, r, err, "failed to load openapi document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(doc); err != nil {
		h.Logger().ErrorContext(r.Context(), "failed to write openapi document", "error", err)
	}
}

// GetDocs renders the Stoplight Elements viewer pointed at GetOpenAPIJSON.
func (h *Handler) GetDocs(w http.ResponseWriter, r *http.Request) {
	page := DocsPage{
		Title:       h.title,
		DocumentURL: h.baseURL + "/openapi.json",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.docsTemplate.Execute(w, page); err != nil {
		h.Logger().ErrorContext(r.Context(), "failed to render docs page", "error", err)
	}
}

// Register mounts every endpoint on mux. The root pattern matches "/" exactly
// so POST / stays free for the transform handler.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.GetStatus)
	mux.HandleFunc("GET /healthz", h.GetHealthz)
	mux.HandleFunc("GET /readyz", h.GetReadyz)
	mux.HandleFunc("GET /version", h.GetVersion)
	mux.HandleFunc("GET /openapi.json", h.GetOpenAPIJSON)
	mux.HandleFunc("GET /docs", h.GetDocs)
}
