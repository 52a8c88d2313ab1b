package ports

import "context"

// ExtractionRequest is one call to the schema-constrained extraction
// collaborator.
type ExtractionRequest struct {
	// Name identifies the response schema, e.g. "equipment_resources".
	Name string
	// Table is the serialized row data with header context.
	Table string
	// Schema is the JSON Schema document the response must conform to.
	Schema map[string]any
	// Instructions is the natural-language extraction guidance.
	Instructions string
	// Keys lists the top-level response keys the envelope declares.
	Keys []string
}

// ExtractionResponse carries the candidate records listed under each
// declared response key. Records are untrusted until normalized.
type ExtractionResponse struct {
	Collections map[string][]any
	Raw         string
	// Usage is nil when the extractor does not report token counts.
	Usage *UsageData
}

// Extractor turns a table into candidate records. Any transport failure or
// non-conforming envelope is returned as an error; there are no retries.
type Extractor interface {
	Extract(ctx context.Context, req *ExtractionRequest) (*ExtractionResponse, error)
}
