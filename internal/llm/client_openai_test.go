package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatCompletionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "**Answer:**\nfrom openai"}}
  ]
}`

func TestOpenAIGenerateCompletionSimple(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key",
		WithBaseURL(srv.URL),
		WithChatModel("gpt-4o-mini"),
		WithTemperature(0.2),
	)

	reply, err := client.GenerateCompletionSimple(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "question"},
	})
	require.NoError(t, err)
	assert.Equal(t, "**Answer:**\nfrom openai", reply)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 0.2, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	require.Len(t, got.Messages[0].Content, 1)
	assert.Equal(t, "sys", got.Messages[0].Content[0].Text)
	require.Len(t, got.Messages[1].Content, 1)
	assert.Equal(t, "text", got.Messages[1].Content[0].Type)
	assert.Equal(t, "question", got.Messages[1].Content[0].Text)
}

func TestOpenAIRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"try again"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithMaxRetries(DefaultMaxRetries))

	reply, err := client.GenerateCompletionSimple(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
	require.NoError(t, err)
	assert.Equal(t, "**Answer:**\nfrom openai", reply)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAINoRetryWhenDisabled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"down"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithMaxRetries(0))

	_, err := client.GenerateCompletionSimple(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
