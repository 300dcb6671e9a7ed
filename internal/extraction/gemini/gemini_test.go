package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/extraction"
	"billdesk/internal/extraction/gemini"
	"billdesk/internal/port"
)

func newTestExtractor(serverURL string) *gemini.Extractor {
	cfg := &config.ExtractionConfig{
		Provider:    "gemini",
		APIKey:      "test-gemini-key",
		TimeoutSecs: 5,
	}
	return gemini.NewExtractorWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]interface{}{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestExtractor_Extract_Success(t *testing.T) {
	llmText := "```json\n{\"bill_number\":\"B-17\",\"bill_date\":\"2024-03-01\",\"items\":[]}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		require.Len(t, parts, 2)

		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/jpeg", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])
		assert.Equal(t, extraction.BillPrompt, parts[1].(map[string]interface{})["text"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmText))
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte{0xFF, 0xD8, 0xFF, 0xE0},
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", out.ModelUsed)
	assert.Equal(t, llmText, out.Text)

	data, err := extraction.ParseBillData(out.Text)
	require.NoError(t, err)
	assert.Equal(t, "B-17", data.BillNumber)
}

func TestExtractor_Extract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"backend error"}}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte{0x89, 0x50, 0x4E, 0x47},
		ContentType: "image/png",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExtractor_Extract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte{0x89, 0x50, 0x4E, 0x47},
		ContentType: "image/png",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	var rlErr *extraction.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 30*time.Second, rlErr.RetryAfter)
}

func TestExtractor_Extract_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte{0xFF, 0xD8, 0xFF},
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtractor_Extract_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestExtractor(url).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte{0xFF, 0xD8, 0xFF},
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestRegistry_GeminiRegistered(t *testing.T) {
	ext, err := extraction.NewExtractor(&config.ExtractionConfig{Provider: "gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &gemini.Extractor{}, ext)
}
