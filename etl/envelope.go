package etl

import "github.com/drblury/etlweaver/transform"

// StatusSuccess is the status field of a successful envelope.
const StatusSuccess = "success"

// Envelope is the response body for a successful transform.
type Envelope struct {
	Status           string           `json:"status"`
	Timestamp        string           `json:"timestamp"`
	RecordsProcessed int              `json:"records_processed"`
	Data             transform.Result `json:"data"`
}
