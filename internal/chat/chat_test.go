package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nakamasato/chatboat/internal/llm"
	"github.com/nakamasato/chatboat/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	messages []llm.Message
	deadline bool
}

func (c *recordingClient) GenerateCompletionSimple(ctx context.Context, messages []llm.Message) (string, error) {
	c.messages = messages
	_, c.deadline = ctx.Deadline()
	return "**Answer:** yes", nil
}

func TestAsk(t *testing.T) {
	client := &recordingClient{}
	svc := NewService(client, prompt.Default, time.Minute)

	reply, err := svc.Ask(context.Background(), "is go fast?")
	require.NoError(t, err)
	assert.Equal(t, "**Answer:** yes", reply)
	assert.Equal(t, prompt.Default.Build("is go fast?"), client.messages)
	assert.True(t, client.deadline)
}

func TestAskWithoutTimeout(t *testing.T) {
	client := &recordingClient{}
	_, err := NewService(client, prompt.Default, 0).Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.False(t, client.deadline)
}

func TestAskError(t *testing.T) {
	boom := errors.New("unavailable")
	svc := NewService(llm.DummyClient{Err: boom}, prompt.Default, time.Second)

	_, err := svc.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
}

type waitingClient struct {
	llm.DummyClient
	waited bool
}

func (c *waitingClient) Wait() {
	c.waited = true
}

func TestCloseWaitsForClient(t *testing.T) {
	client := &waitingClient{DummyClient: llm.DummyClient{ReturnValue: "r"}}
	svc := NewService(client, prompt.Default, time.Second)

	svc.Close()
	assert.True(t, client.waited)

	// Clients without background work are left alone.
	NewService(llm.DummyClient{}, prompt.Default, time.Second).Close()
}
