package responder

import (
	"net/http"
	"strings"
)

// StatusError is the status field of every error envelope.
const StatusError = "error"

// ErrorEnvelope is the JSON body written for every failed request.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// HandleAPIError writes an error envelope with status and logs err at the
// level of the status rule. A nil err writes nothing.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	rule := r.rule(status)
	envelope := ErrorEnvelope{
		Status:  StatusError,
		Message: envelopeMessage(rule.Prefix, err.Error()),
		TraceID: NewTraceID(),
	}

	logger := r.Logger().With("error", err.Error(), "traceId", envelope.TraceID, "status", status)
	if len(logMsg) > 0 {
		logger = logger.With("logMessages", logMsg)
	}
	logger.Log(requestContext(req), rule.Level, rule.LogMsg)

	r.RespondWithJSON(w, req, status, envelope)
}

// envelopeMessage joins prefix and detail. A detail that already opens with
// the prefix, as "method not allowed" does for 405, is not repeated.
func envelopeMessage(prefix, detail string) string {
	if len(detail) >= len(prefix) && strings.EqualFold(detail[:len(prefix)], prefix) {
		detail = strings.TrimLeft(detail[len(prefix):], ": ")
	}
	if detail == "" {
		return prefix
	}
	return prefix + ": " + detail
}

// HandleInternalServerError reports err as a processing error (500).
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

// HandleBadRequestError reports malformed client input (400).
func (r *Responder) HandleBadRequestError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusBadRequest, err, logMsg...)
}

// HandleErrors picks the status through the classifier and falls back to 500.
func (r *Responder) HandleErrors(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	if err == nil {
		return
	}
	if r.classifier != nil {
		if status, ok := r.classifier(err); ok {
			r.HandleAPIError(w, req, status, err, logMsg...)
			return
		}
	}
	r.HandleInternalServerError(w, req, err, logMsg...)
}
