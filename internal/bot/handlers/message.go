package handlers

import (
	"context"
	"fmt"
	"strconv"
)

// Message is a chat message as seen by the command handlers.
type Message struct {
	ID        string
	AuthorID  string
	ChannelID string
	// GuildID is empty for direct messages.
	GuildID string
	Content string
	// Command is filled in by the Router once the message matched.
	Command string
}

// InServer reports whether the message was posted in a server channel.
func (m *Message) InServer() bool {
	return m.GuildID != ""
}

// ServerID returns the numeric server id used to key stored history.
func (m *Message) ServerID() (int64, error) {
	id, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid server id %q", m.GuildID)
	}
	return id, nil
}

// Reply is what a handler wants posted back. AsReply references the
// triggering message; otherwise the text is posted to the channel.
type Reply struct {
	Text    string
	AsReply bool
}

// HandlerFunc handles one command.
type HandlerFunc func(ctx context.Context, msg *Message) (Reply, error)

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

func chain(h HandlerFunc, middleware ...Middleware) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
