// Package probe builds readiness checks for the service's dependencies: the
// upstream API it pulls records from, the MongoDB sink, and any other
// component that can be pinged. Every failure is an *Error naming the
// component.
package probe
