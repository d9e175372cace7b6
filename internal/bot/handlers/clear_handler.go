package handlers

import (
	"context"
)

// NewClearHandler returns a handler for the clear command.
func NewClearHandler(deps HandlerDeps) HandlerFunc {
	return clearHandler{deps}.Handle
}

type clearHandler struct {
	deps HandlerDeps
}

func (h clearHandler) Handle(ctx context.Context, msg *Message) (Reply, error) {
	log := h.deps.Logger.With("handler", "clear")

	serverID, err := msg.ServerID()
	if err != nil {
		return Reply{}, err
	}

	log.InfoContext(ctx, "Clearing server history", "server_id", serverID, "user_id", msg.AuthorID)

	deleted, err := h.deps.Conversation.Clear(ctx, serverID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to clear server history", "server_id", serverID, "error", err)
		if ctx.Err() != nil {
			return Reply{}, err
		}
		return Reply{Text: h.deps.Config.Messages.DatabaseError, AsReply: true}, nil
	}

	log.InfoContext(ctx, "Server history cleared", "server_id", serverID, "deleted", deleted)
	return Reply{Text: h.deps.Config.Messages.HistoryCleared, AsReply: true}, nil
}
