package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yanqian/yogava/pkg/metrics"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultTimeout = 3 * time.Minute
)

// Roles accepted by the chat completion endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message mirrors the OpenAI chat message structure.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the payload sent to the chat completion API.
type ChatCompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
}

// ChatCompletionResponse captures the response for non streaming calls.
type ChatCompletionResponse struct {
	Choices []Choice
	Usage   metrics.TokenUsage
}

// Choice is a single completion candidate.
type Choice struct {
	Message      Message
	FinishReason string
}

// Client talks to any OpenAI-compatible chat completion endpoint (OpenRouter by default).
type Client struct {
	api openai.Client
}

// NewClient constructs a chat client. Extra request options are appended after the defaults.
func NewClient(apiKey, baseURL string, timeout time.Duration, opts ...option.RequestOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatgpt api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/"),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	return &Client{api: openai.NewClient(append(base, opts...)...)}, nil
}

// CreateChatCompletion triggers a sync chat completion call.
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	messages, err := toParams(req.Messages)
	if err != nil {
		return ChatCompletionResponse{}, err
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(float64(req.Temperature))
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return ChatCompletionResponse{}, fmt.Errorf("request chat completion: %w", err)
	}

	out := ChatCompletionResponse{
		Choices: make([]Choice, 0, len(completion.Choices)),
		Usage: metrics.TokenUsage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	for _, choice := range completion.Choices {
		out.Choices = append(out.Choices, Choice{
			Message:      Message{Role: RoleAssistant, Content: choice.Message.Content},
			FinishReason: string(choice.FinishReason),
		})
	}
	return out, nil
}

func toParams(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}
	}
	return out, nil
}
