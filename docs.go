// Package etlweaver is a small HTTP service that accepts loosely shaped JSON
// records and returns them normalized inside a success envelope. The root
// package only carries documentation; the service lives in the packages below
// and is assembled by cmd/etlweaver.
//
// # Packages
//
//   - transform: the pure normalization function. Names are trimmed and
//     upper-cased, values coerced to floats, and every record is marked as
//     processed.
//   - etl: the POST / handler that reads the body, runs the transformer, and
//     renders the success envelope.
//   - responder: JSON rendering, error envelopes with trace ids, and request
//     body decoding shared by every handler.
//   - info: GET / health, liveness and readiness probes, version, and the
//     OpenAPI document with its HTML viewer.
//   - probe: adapters that turn an upstream HTTP endpoint, a MongoDB client,
//     or a plain closure into a readiness check.
//   - router: the middleware chain (access logging, CORS, OpenAPI route
//     validation, and request timeouts).
//   - api: the embedded OpenAPI document.
//   - config: settings from .env, the environment, and flags.
//   - jsonutil: sonic wrappers, including a decoder that keeps numbers exact.
//
// # Quick Start
//
//	resp := responder.New(
//	    responder.WithLogger(logger),
//	    responder.WithClassifier(etl.ClassifyError),
//	)
//	mux := http.NewServeMux()
//	info.New(info.WithResponder(resp)).Register(mux)
//	etl.NewHandler(etl.WithResponder(resp)).Register(mux)
//	http.ListenAndServe(":8080", router.New(mux, router.WithLogger(logger)))
//
// Sharing the responder keeps error envelopes and trace ids consistent across
// the health and transform routes.
package etlweaver
