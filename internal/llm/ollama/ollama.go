// Package ollama adapts a local Ollama server to llm.Model.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/llm"
)

// DefaultModel matches the small model the assistant prompt was tuned on.
const DefaultModel = "llama3.2:3b"

// Model calls the Ollama chat endpoint without streaming.
type Model struct {
	client *api.Client
	name   string
}

// New returns a Model talking to the Ollama server at host.
func New(host, model string) (*Model, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: parsing host %q: %w", host, err)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	return &Model{client: api.NewClient(base, httpClient), name: model}, nil
}

func (m *Model) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	msgs := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		msgs = append(msgs, api.Message{Role: msg.Role, Content: msg.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    m.name,
		Messages: msgs,
		Stream:   &stream,
	}

	var b strings.Builder
	err := m.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		b.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: chat with %s: %w", m.name, err)
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

// Name returns the configured model name.
func (m *Model) Name() string {
	return m.name
}
