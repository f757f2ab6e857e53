package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var chatModel = openai.ChatModelGPT4oMini

type openaiClient struct {
	openai      *openai.Client
	chatModel   openai.ChatModel
	temperature float64
	maxRetries  int
	baseURL     string
}

type ClientOption func(*openaiClient)

func WithChatModel(model string) ClientOption {
	return func(c *openaiClient) {
		c.chatModel = openai.ChatModel(model)
	}
}

func WithTemperature(temperature float64) ClientOption {
	return func(c *openaiClient) {
		c.temperature = temperature
	}
}

func WithMaxRetries(n int) ClientOption {
	return func(c *openaiClient) {
		c.maxRetries = n
	}
}

// WithBaseURL points the client at an OpenAI-compatible gateway.
func WithBaseURL(url string) ClientOption {
	return func(c *openaiClient) {
		c.baseURL = url
	}
}

func NewOpenAIClient(apiKey string, opts ...ClientOption) Client {
	client := openaiClient{
		chatModel:   chatModel, // default chat model
		temperature: 1.0,
		maxRetries:  DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(&client)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(client.maxRetries),
	}
	if client.baseURL != "" {
		baseURL := client.baseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	client.openai = openai.NewClient(reqOpts...)

	return client
}

func (c openaiClient) convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, m := range messages {
		switch m.Role {
		case RoleUser:
			msgs[i] = openai.UserMessage(m.Content)
		case RoleAssistant:
			msgs[i] = openai.AssistantMessage(m.Content)
		default:
			msgs[i] = openai.SystemMessage(m.Content)
		}
	}
	return msgs
}

func (c openaiClient) GenerateCompletionSimple(ctx context.Context, messages []Message) (string, error) {
	msgs := c.convertMessages(messages)
	chat, err := c.openai.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Model:       openai.F(c.chatModel),
			Messages:    openai.F(msgs),
			Temperature: openai.Float(c.temperature),
		})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return chat.Choices[0].Message.Content, nil
}
