package handlers

import "context"

// NewPingHandler returns a handler for the ping command.
func NewPingHandler(deps HandlerDeps) HandlerFunc {
	return pingHandler{deps}.Handle
}

type pingHandler struct {
	deps HandlerDeps
}

func (h pingHandler) Handle(_ context.Context, _ *Message) (Reply, error) {
	return Reply{Text: h.deps.Config.Messages.Pong}, nil
}
