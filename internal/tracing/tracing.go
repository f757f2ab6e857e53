// Package tracing records model calls as LangSmith runs.
package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nakamasato/chatboat/internal/llm"
)

const recordTimeout = 5 * time.Second

// Run is the subset of the LangSmith run schema that is sent.
type Run struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	RunType     string         `json:"run_type"`
	Inputs      map[string]any `json:"inputs"`
	Outputs     map[string]any `json:"outputs,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	SessionName string         `json:"session_name"`
	Extra       map[string]any `json:"extra,omitempty"`
}

type Tracer struct {
	endpoint string
	apiKey   string
	project  string
	http     *http.Client
	pending  sync.WaitGroup
}

type Option func(*Tracer)

func WithHTTPClient(c *http.Client) Option {
	return func(t *Tracer) {
		t.http = c
	}
}

func New(endpoint, apiKey, project string, opts ...Option) *Tracer {
	t := &Tracer{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		project:  project,
		http:     &http.Client{Timeout: recordTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record posts a finished run.
func (t *Tracer) Record(ctx context.Context, run Run) error {
	if run.SessionName == "" {
		run.SessionName = t.project
	}
	body, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/runs", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", t.apiKey)

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("post run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("post run: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}

// Wait blocks until runs recorded in the background have been sent.
func (t *Tracer) Wait() {
	t.pending.Wait()
}

func (t *Tracer) recordAsync(ctx context.Context, run Run) {
	t.pending.Add(1)
	go func() {
		defer t.pending.Done()
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		if err := t.Record(rctx, run); err != nil {
			log.Printf("[tracing] %v", err)
		}
	}()
}

type tracedClient struct {
	next   llm.Client
	tracer *Tracer
	name   string
	model  string
}

// Wrap records every completion of next without delaying the reply.
// A nil tracer returns next unchanged.
func Wrap(next llm.Client, tracer *Tracer, name, model string) llm.Client {
	if tracer == nil {
		return next
	}
	return tracedClient{next: next, tracer: tracer, name: name, model: model}
}

func (c tracedClient) GenerateCompletionSimple(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now().UTC()
	reply, err := c.next.GenerateCompletionSimple(ctx, messages)

	run := Run{
		ID:        uuid.NewString(),
		Name:      c.name,
		RunType:   "llm",
		Inputs:    map[string]any{"messages": messages},
		StartTime: start,
		EndTime:   time.Now().UTC(),
		Extra:     map[string]any{"metadata": map[string]any{"ls_model_name": c.model}},
	}
	if err != nil {
		run.Error = err.Error()
	} else {
		run.Outputs = map[string]any{"text": reply}
	}

	c.tracer.recordAsync(ctx, run)
	return reply, err
}

// Wait flushes runs still in flight.
func (c tracedClient) Wait() {
	c.tracer.Wait()
}
