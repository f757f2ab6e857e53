// Package chat runs one question/answer turn against the model.
package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nakamasato/chatboat/internal/llm"
	"github.com/nakamasato/chatboat/internal/prompt"
)

type Service struct {
	client   llm.Client
	template prompt.Template
	timeout  time.Duration
}

func NewService(client llm.Client, template prompt.Template, timeout time.Duration) *Service {
	return &Service{
		client:   client,
		template: template,
		timeout:  timeout,
	}
}

// Close waits for background work of the client, such as pending traces.
func (s *Service) Close() {
	if w, ok := s.client.(interface{ Wait() }); ok {
		w.Wait()
	}
}

// Ask fills the template with question and returns the raw model text.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.client.GenerateCompletionSimple(ctx, s.template.Build(question))
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	log.Printf("[chat] answered in %s (%d bytes)", time.Since(start).Round(time.Millisecond), len(reply))
	return reply, nil
}
