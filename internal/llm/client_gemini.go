package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/genai"
)

const geminiChatModel = "gemini-2.5-pro"

// contentGenerator is the part of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiClient struct {
	models      contentGenerator
	chatModel   string
	temperature float32
	maxRetries  int
	newBackOff  func() backoff.BackOff
}

type GeminiOption func(*geminiClient)

func WithGeminiModel(model string) GeminiOption {
	return func(c *geminiClient) {
		c.chatModel = model
	}
}

func WithGeminiTemperature(temperature float64) GeminiOption {
	return func(c *geminiClient) {
		c.temperature = float32(temperature)
	}
}

func WithGeminiMaxRetries(n int) GeminiOption {
	return func(c *geminiClient) {
		c.maxRetries = n
	}
}

// WithGeminiBackOff replaces the exponential backoff between attempts.
func WithGeminiBackOff(newBackOff func() backoff.BackOff) GeminiOption {
	return func(c *geminiClient) {
		c.newBackOff = newBackOff
	}
}

func withContentGenerator(g contentGenerator) GeminiOption {
	return func(c *geminiClient) {
		c.models = g
	}
}

func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (Client, error) {
	client := geminiClient{
		chatModel:   geminiChatModel,
		temperature: 1.0,
		maxRetries:  DefaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}

	for _, opt := range opts {
		opt(&client)
	}

	if client.models == nil {
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		client.models = gc.Models
	}

	return client, nil
}

// convertMessages moves system messages into the system instruction and keeps the rest as contents.
func (c geminiClient) convertMessages(messages []Message) (*genai.Content, []*genai.Content) {
	var system []string
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleModel),
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleUser),
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}

	if len(system) == 0 {
		return nil, contents
	}
	return &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}}, contents
}

func (c geminiClient) GenerateCompletionSimple(ctx context.Context, messages []Message) (string, error) {
	system, contents := c.convertMessages(messages)
	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(c.temperature),
	}

	attempt := 0
	operation := func() (string, error) {
		attempt++
		res, err := c.models.GenerateContent(ctx, c.chatModel, contents, config)
		if err != nil {
			if !isRetryable(err) {
				return "", backoff.Permanent(err)
			}
			log.Printf("[gemini] attempt %d failed: %v", attempt, err)
			return "", err
		}
		if res == nil {
			return "", backoff.Permanent(ErrEmptyResponse)
		}
		reply := res.Text()
		if reply == "" {
			return "", backoff.Permanent(ErrEmptyResponse)
		}
		return reply, nil
	}

	reply, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return reply, nil
}

// isRetryable reports whether a failed call is worth another attempt.
// Client errors other than rate limiting will not change on retry.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	default:
		return true
	}
	if code == http.StatusTooManyRequests {
		return true
	}
	return code < 400 || code >= 500
}
