package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned an empty response")

type Client interface {
	GenerateCompletionSimple(ctx context.Context, messages []Message) (string, error)
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"type"`
	Content string `json:"content"`
}

// DefaultMaxRetries is the number of retries after the first failed attempt.
const DefaultMaxRetries = 2

type DummyClient struct {
	ReturnValue string
	Err         error
}

func (d DummyClient) GenerateCompletionSimple(ctx context.Context, messages []Message) (string, error) {
	if d.Err != nil {
		return "", d.Err
	}
	if d.ReturnValue != "" {
		return d.ReturnValue, nil
	}
	return "dummy simple result", nil
}
