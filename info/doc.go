// Package info serves the operational surface of the service: the GET / health
// responder, liveness and readiness probes, build metadata, and the OpenAPI
// document with a Stoplight Elements viewer.
package info
