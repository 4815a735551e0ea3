// Package etl serves the transform endpoint. A POST body is decoded as a JSON
// object, normalized by the transform package, and answered with a success
// envelope carrying the processed-record count. Decode failures are client
// errors (400, or 413 for oversized bodies); normalization failures are
// processing errors (500). Each request is handled independently; the
// Handler holds no mutable state.
package etl
