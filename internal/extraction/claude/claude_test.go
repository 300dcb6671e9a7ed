package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/extraction/claude"
	"billdesk/internal/port"
)

func newTestExtractor(serverURL string) *claude.Extractor {
	return claude.NewExtractorWithEndpoint(&config.ExtractionConfig{
		Provider:    "claude",
		APIKey:      "test-key",
		Model:       "claude-test",
		TimeoutSecs: 5,
	}, serverURL)
}

func TestExtractor_Extract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-test", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		require.Len(t, content, 2)
		image := content[0].(map[string]interface{})
		assert.Equal(t, "image", image["type"])
		source := image["source"].(map[string]interface{})
		assert.Equal(t, "base64", source["type"])
		assert.Equal(t, "image/webp", source["media_type"])
		assert.Equal(t, "text", content[1].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": `{"bill_number":"C-1"}`},
			},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("RIFF0000WEBPVP8 "),
		ContentType: "image/webp",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"bill_number":"C-1"}`, out.Text)
	assert.Equal(t, "claude-test", out.ModelUsed)
}

func TestExtractor_Extract_MaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"bill"}],"stop_reason":"max_tokens"}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte{0xFF, 0xD8, 0xFF},
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtractor_Extract_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authentication_error"}}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte{0xFF, 0xD8, 0xFF},
		ContentType: "image/jpeg",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "status 401")
}
