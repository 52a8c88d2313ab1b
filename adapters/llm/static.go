package llm

import (
	"context"
	"fmt"
	"os"

	"clinicsetup/ports"
)

// StaticExtractor answers every request with a fixed response body. The
// body goes through the same envelope validation as a live response.
type StaticExtractor struct {
	Content string
	Err     error
}

// NewStaticExtractorFromFile loads a canned JSON response.
func NewStaticExtractorFromFile(path string) (*StaticExtractor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read canned response: %w", err)
	}
	return &StaticExtractor{Content: string(data)}, nil
}

func (s *StaticExtractor) Extract(ctx context.Context, req *ports.ExtractionRequest) (*ports.ExtractionResponse, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return decodeEnvelope(cleanJSONContent(s.Content), req.Keys)
}
