package port

import "context"

// ExtractInput carries one bill image to a vision model.
type ExtractInput struct {
	ImageBytes  []byte
	ContentType string
}

// ExtractOutput is the raw model reply before bill-data parsing.
type ExtractOutput struct {
	Text      string
	ModelUsed string
}

// BillExtractor abstracts a vision LLM that reads bill images.
type BillExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
