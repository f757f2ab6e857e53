package chat

import (
	"context"
	"fmt"

	"github.com/nakamasato/chatboat/config"
	"github.com/nakamasato/chatboat/internal/llm"
	"github.com/nakamasato/chatboat/internal/prompt"
	"github.com/nakamasato/chatboat/internal/tracing"
)

// NewClient builds the model client for the configured provider, traced when a LangSmith key is present.
func NewClient(ctx context.Context, cfg config.ChatboatConfig) (llm.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var client llm.Client
	switch cfg.Model.Provider {
	case config.ProviderOpenAI:
		opts := []llm.ClientOption{
			llm.WithTemperature(cfg.Model.Temperature),
			llm.WithMaxRetries(cfg.Model.MaxRetries),
		}
		if cfg.Model.Name != "" {
			opts = append(opts, llm.WithChatModel(cfg.Model.Name))
		}
		if cfg.Model.BaseURL != "" {
			opts = append(opts, llm.WithBaseURL(cfg.Model.BaseURL))
		}
		client = llm.NewOpenAIClient(cfg.OpenAIAPIKey, opts...)
	default:
		opts := []llm.GeminiOption{
			llm.WithGeminiTemperature(cfg.Model.Temperature),
			llm.WithGeminiMaxRetries(cfg.Model.MaxRetries),
		}
		if cfg.Model.Name != "" {
			opts = append(opts, llm.WithGeminiModel(cfg.Model.Name))
		}
		var err error
		client, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("new client: %w", err)
		}
	}

	if cfg.TracingEnabled() {
		tracer := tracing.New(cfg.Tracing.Endpoint, cfg.LangSmithAPIKey, cfg.Tracing.Project)
		client = tracing.Wrap(client, tracer, cfg.Model.Provider, cfg.Model.Name)
	}
	return client, nil
}

// NewFromConfig returns a Service using the default prompt template.
func NewFromConfig(ctx context.Context, cfg config.ChatboatConfig) (*Service, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewService(client, prompt.Default, cfg.Model.Timeout), nil
}
