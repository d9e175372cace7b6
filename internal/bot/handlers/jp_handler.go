package handlers

import (
	"context"
	"fmt"
)

// NewJPHandler returns a handler for the jp command. It posts a freshly
// generated sentence exercise to the channel.
func NewJPHandler(deps HandlerDeps) HandlerFunc {
	return jpHandler{deps}.Handle
}

type jpHandler struct {
	deps HandlerDeps
}

func (h jpHandler) Handle(ctx context.Context, msg *Message) (Reply, error) {
	log := h.deps.Logger.With("handler", "jp")

	serverID, err := msg.ServerID()
	if err != nil {
		return Reply{}, err
	}

	log.InfoContext(ctx, "Generating sentence", "server_id", serverID, "channel_id", msg.ChannelID)

	text, err := h.deps.Conversation.Generate(ctx, serverID)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to generate sentence for server %d: %w", serverID, err)
	}
	return Reply{Text: text}, nil
}
