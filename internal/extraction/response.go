package extraction

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"billdesk/internal/domain"
)

var (
	leadingFence  = regexp.MustCompile("^```(?:json)?")
	trailingFence = regexp.MustCompile("```$")
)

// StripFences removes one leading ``` or ```json fence and one trailing ```
// fence, then trims whitespace.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseBillData decodes a model reply into BillData. Any decode failure is
// reported as domain.ErrParseFailed.
func ParseBillData(text string) (*domain.BillData, error) {
	cleaned := StripFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty model output", domain.ErrParseFailed)
	}
	var data domain.BillData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}
	if data.Items == nil {
		data.Items = []domain.ExtractedItem{}
	}
	return &data, nil
}

// DetectImageType sniffs data and returns its MIME type when it is an
// accepted bill image format.
func DetectImageType(data []byte) (string, domain.ImageType, error) {
	contentType := http.DetectContentType(data)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := domain.AllowedImageTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, contentType)
	}
	return contentType, ext, nil
}

// ProviderError wraps a transport or API failure as domain.ErrExtractionFailed.
func ProviderError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, provider, err)
}
