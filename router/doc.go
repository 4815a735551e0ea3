// Package router wraps the service mux with its middleware chain. From the
// outside in: access logging, CORS, OpenAPI route validation, and a request
// deadline. See ExampleNew.
package router
