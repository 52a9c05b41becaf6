package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/llm"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/model"
)

// SystemPrompt instructs the model to answer search requests with a
// SEARCH: or SEARCH_NEXT: directive instead of prose.
const SystemPrompt = `You are Trace, an expert AI Talent Acquisition Assistant.

TOOL USE:
If the user asks to find, search, or look for candidates/people, you MUST reply with exactly:
SEARCH: <search_terms>

If the user says the previous results are not good, or asks for "next", "more", or "others", you MUST reply with exactly:
SEARCH_NEXT: <original_search_terms>

Example:
User: "Find me a React developer in London"
You: SEARCH: React developer London
User: "These aren't good"
You: SEARCH_NEXT: React developer London
User: "Find me a React developer in London"
You: SEARCH: React developer London

For other queries, just answer helpfully.
Keep responses concise.`

const (
	searchDirective = "SEARCH:"
	nextDirective   = "SEARCH_NEXT:"

	ReplyText          = "text"
	ReplySearchResults = "search_results"

	msgMoreCandidates = "Here are some other candidates that might be a better fit."
	msgNoMore         = "I couldn't find any more candidates matching that description."
	msgBrainTrouble   = "I'm having trouble connecting to my brain right now."
)

// ChatReply is what the assistant sends back for one turn.
type ChatReply struct {
	Type    string            `json:"type"`
	Content string            `json:"content"`
	Data    []model.Candidate `json:"data"`
}

// ChatService turns a conversation into an assistant reply, running a
// candidate search when the model asks for one.
type ChatService struct {
	model  llm.Model
	search Searcher
	logger *slog.Logger
}

// NewChatService returns a ChatService. m may be nil when no model is
// configured; every reply is then the connection-trouble message.
func NewChatService(m llm.Model, searcher Searcher, logger *slog.Logger) *ChatService {
	return &ChatService{model: m, search: searcher, logger: logger}
}

// Reply answers the latest turn of history. Failures never surface as
// errors; they become a canned text reply.
func (s *ChatService) Reply(ctx context.Context, history []llm.Message) ChatReply {
	if s.model == nil {
		s.logger.Warn("chat requested but no language model is configured")
		return textReply(msgBrainTrouble)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt})
	messages = append(messages, history...)

	raw, err := s.model.Chat(ctx, messages)
	if err != nil {
		s.logger.Error("chat model call failed", slog.String("error", err.Error()))
		return textReply(msgBrainTrouble)
	}
	content := strings.TrimSpace(raw)

	// SEARCH_NEXT: never matches the SEARCH: prefix, so the order of these
	// checks does not matter.
	switch {
	case strings.HasPrefix(content, searchDirective):
		query := strings.TrimSpace(strings.TrimPrefix(content, searchDirective))
		return s.runSearch(ctx, query, false)
	case strings.HasPrefix(content, nextDirective):
		query := strings.TrimSpace(strings.TrimPrefix(content, nextDirective))
		return s.runSearch(ctx, query, true)
	default:
		return textReply(content)
	}
}

func (s *ChatService) runSearch(ctx context.Context, query string, more bool) ChatReply {
	s.logger.Info("assistant requested search", slog.String("query", query), slog.Bool("more", more))

	candidates, err := s.search.Search(ctx, query, "", more)
	if err != nil {
		s.logger.Error("assistant search failed", slog.String("query", query), slog.String("error", err.Error()))
		return textReply(msgBrainTrouble)
	}

	if !more {
		return ChatReply{
			Type:    ReplySearchResults,
			Content: fmt.Sprintf("I've found top candidates for '%s'.", query),
			Data:    candidates,
		}
	}
	if len(candidates) == 0 {
		return textReply(msgNoMore)
	}
	return ChatReply{Type: ReplySearchResults, Content: msgMoreCandidates, Data: candidates}
}

func textReply(content string) ChatReply {
	return ChatReply{Type: ReplyText, Content: content}
}
