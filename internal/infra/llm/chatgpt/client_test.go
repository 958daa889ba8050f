package chatgpt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "gen-1",
  "object": "chat.completion",
  "created": 1719800000,
  "model": "test-model",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "{\"title\":\"Morning Flow\"}"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
}`

func TestCreateChatCompletionSendsConversation(t *testing.T) {
	var captured struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
	}
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL, time.Second, option.WithMaxRetries(0))
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model: "test-model",
		Messages: []Message{
			{Role: RoleUser, Content: "transcript"},
			{Role: RoleUser, Content: "give me a title"},
			{Role: RoleAssistant, Content: "not json"},
			{Role: RoleUser, Content: "give me a title"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "/chat/completions", gotPath)
	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 4)
	require.Equal(t, RoleAssistant, captured.Messages[2].Role)
	require.Equal(t, "not json", captured.Messages[2].Content)

	require.Len(t, resp.Choices, 1)
	require.Equal(t, `{"title":"Morning Flow"}`, resp.Choices[0].Message.Content)
	require.Equal(t, "stop", resp.Choices[0].FinishReason)
	require.Equal(t, 17, resp.Usage.TotalTokens)
}

func TestCreateChatCompletionSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","code":401}}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL, time.Second, option.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "request chat completion")
}

func TestCreateChatCompletionRejectsUnknownRole(t *testing.T) {
	client, err := NewClient("sk-test", "", 0)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "m",
		Messages: []Message{{Role: "tool", Content: "x"}},
	})
	require.Error(t, err)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "", 0)
	require.Error(t, err)
}
