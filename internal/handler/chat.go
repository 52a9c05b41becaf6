package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/llm"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/service"
)

type ChatService interface {
	Reply(ctx context.Context, history []llm.Message) service.ChatReply
}

// ChatHandler serves the assistant.
type ChatHandler struct {
	chat   ChatService
	logger *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(svc ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: svc, logger: logger}
}

type chatRequest struct {
	History []llm.Message `json:"history" validate:"required,dive"`
}

type chatResponse struct {
	Response service.ChatReply `json:"response"`
}

// HandleChat answers the latest turn of a conversation.
//
// HTTP: POST /api/chat
// REQUEST BODY: {"history": [{"role": "user", "content": "Find a Go dev"}]}
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	reply := h.chat.Reply(r.Context(), req.History)
	h.logger.Debug("chat reply", slog.String("type", reply.Type), slog.Int("turns", len(req.History)))

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}
