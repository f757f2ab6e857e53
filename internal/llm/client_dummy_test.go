package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nakamasato/chatboat/internal/llm"
)

func TestGenerateCompletionSimple(t *testing.T) {
	client := llm.DummyClient{ReturnValue: "simple completion"}
	ctx := context.Background()
	messages := []llm.Message{}

	result, err := client.GenerateCompletionSimple(ctx, messages)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "simple completion" {
		t.Errorf("expected 'simple completion', got %v", result)
	}
}

func TestGenerateCompletionSimpleDefault(t *testing.T) {
	client := llm.DummyClient{}

	result, err := client.GenerateCompletionSimple(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "dummy simple result" {
		t.Errorf("expected 'dummy simple result', got %v", result)
	}
}

func TestGenerateCompletionSimpleError(t *testing.T) {
	boom := errors.New("boom")
	client := llm.DummyClient{ReturnValue: "ignored", Err: boom}

	_, err := client.GenerateCompletionSimple(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
