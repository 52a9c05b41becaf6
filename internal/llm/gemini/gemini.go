// Package gemini adapts the Google Gemini API to llm.Model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/llm"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the part of *genai.Models this package uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Model sends conversations to Gemini. System messages become the system
// instruction; assistant turns are sent with the "model" role.
type Model struct {
	models contentGenerator
	name   string
}

// New creates a Model configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Model, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	return &Model{models: client.Models, name: model}, nil
}

func (m *Model) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	var (
		system   []string
		contents []*genai.Content
	)
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, msg.Content)
		case llm.RoleAssistant:
			contents = append(contents, textContent(string(genai.RoleModel), msg.Content))
		default:
			contents = append(contents, textContent(string(genai.RoleUser), msg.Content))
		}
	}
	if len(contents) == 0 {
		return "", errors.New("gemini: conversation has no user or model turns")
	}

	var cfg *genai.GenerateContentConfig
	if len(system) > 0 {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
			},
		}
	}

	resp, err := m.models.GenerateContent(ctx, m.name, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	out := responseText(resp)
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

func textContent(role, text string) *genai.Content {
	return &genai.Content{Role: role, Parts: []*genai.Part{{Text: text}}}
}

// responseText joins the text parts of every candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
		}
	}
	return strings.TrimSpace(b.String())
}

// Name returns the configured model name.
func (m *Model) Name() string {
	return m.name
}
