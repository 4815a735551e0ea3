package info

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/drblury/etlweaver/responder"
)

func quietResponder() *responder.Responder {
	return responder.New(responder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func decodeProbePayload(t *testing.T, body []byte) probePayload {
	t.Helper()

	var payload probePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode probe payload: %v (body: %s)", err, string(body))
	}
	return payload
}

func decodeEnvelope(t *testing.T, body []byte) responder.ErrorEnvelope {
	t.Helper()

	var envelope responder.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v (body: %s)", err, string(body))
	}
	return envelope
}
