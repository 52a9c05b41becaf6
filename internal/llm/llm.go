// Package llm defines the chat-model abstraction used by the assistant and
// the synthetic profile generator. Backends live in sub-packages.
package llm

import (
	"context"
	"errors"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned by backends when the model produced no text.
var ErrEmptyResponse = errors.New("llm: model returned an empty response")

// Message is one chat turn.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// Model sends a conversation to a language model and returns its reply.
type Model interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
