package responder

import (
	"net/http"

	"github.com/drblury/etlweaver/jsonutil"
)

// fallbackEnvelope is written verbatim when a body cannot be encoded.
const fallbackEnvelope = `{"status":"error","message":"Processing error: failed to encode response"}` + "\n"

// RespondWithJSON encodes v with a trailing newline and writes it with
// status. If v cannot be encoded the caller gets a 500 envelope instead.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	if w == nil {
		return
	}

	body, err := jsonutil.Marshal(v)
	if err != nil {
		r.Logger().ErrorContext(requestContext(req), "failed to encode response", "error", err)
		status, body = http.StatusInternalServerError, []byte(fallbackEnvelope)
	} else {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.Logger().WarnContext(requestContext(req), "failed to write response", "error", err)
	}
}
