package responder

import "github.com/oklog/ulid/v2"

// NewTraceID returns a sortable identifier shared by an error envelope and
// its log record. ulid.Make is safe for concurrent use.
func NewTraceID() string {
	return ulid.Make().String()
}
