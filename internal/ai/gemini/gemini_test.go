package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/engineers-api/internal/ai"
	"github.com/aanand-mishra/engineers-api/internal/ai/gemini"
)

func newFakeGemini(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)

		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if json.Unmarshal(raw, &req) == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &gotPrompt
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := gemini.New(context.Background(), gemini.Config{})
	assert.Error(t, err)
}

func TestChat_ReturnsText(t *testing.T) {
	srv, gotPrompt := newFakeGemini(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "## Next Skills\n1. Kubernetes"}]},
			"finishReason": "STOP"
		}]
	}`)

	c, err := gemini.New(context.Background(), gemini.Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := c.Chat(context.Background(), "roadmap for Ana")
	require.NoError(t, err)
	assert.Equal(t, "## Next Skills\n1. Kubernetes", text)
	assert.Equal(t, "roadmap for Ana", *gotPrompt)
}

func TestChat_ProviderErrorIsWrapped(t *testing.T) {
	srv, _ := newFakeGemini(t, http.StatusBadRequest,
		`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`)

	c, err := gemini.New(context.Background(), gemini.Config{APIKey: "bad-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrProvider)
}

func TestChat_EmptyAnswerIsAnError(t *testing.T) {
	srv, _ := newFakeGemini(t, http.StatusOK, `{"candidates": []}`)

	c, err := gemini.New(context.Background(), gemini.Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "hello")
	assert.ErrorIs(t, err, ai.ErrProvider)
}
