package handlers

import (
	"context"
	"fmt"
	"strings"
)

// NewHelpHandler returns a handler for the help command.
func NewHelpHandler(deps HandlerDeps) HandlerFunc {
	return helpHandler{deps}.Handle
}

// helpHandler processes the help command using injected dependencies.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, msg *Message) (Reply, error) {
	h.deps.Logger.DebugContext(ctx, "Handling help command", "handler", "help", "channel_id", msg.ChannelID)
	return Reply{Text: HelpText(h.deps.Config.Discord.Prefix), AsReply: true}, nil
}

// HelpText renders the command list, one line per command.
func HelpText(prefix string) string {
	var sb strings.Builder
	sb.WriteString("Available Commands:")
	for _, c := range Commands {
		fmt.Fprintf(&sb, "\n`%s%s` - %s", prefix, c.Name, c.Description)
	}
	return sb.String()
}
