// Package api embeds the OpenAPI document describing the service routes.
package api

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.json
var document []byte

// Document returns a copy of the raw OpenAPI JSON document.
func Document() ([]byte, error) {
	out := make([]byte, len(document))
	copy(out, document)
	return out, nil
}

// Load parses and validates the embedded document. Each call returns a fresh
// *openapi3.T, so callers may mutate it.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("api: load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("api: invalid openapi document: %w", err)
	}
	return doc, nil
}
