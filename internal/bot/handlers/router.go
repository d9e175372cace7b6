package handlers

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Router maps prefixed chat messages to command handlers and turns handler
// errors into failure replies.
type Router struct {
	deps         HandlerDeps
	prefix       string
	autoChannels map[string]struct{}
	handlers     map[string]HandlerFunc
	timeout      time.Duration
}

// NewRouter registers every command. middleware runs around each command,
// outside its own per-command middleware.
func NewRouter(deps HandlerDeps, middleware ...Middleware) *Router {
	r := &Router{
		deps:         deps,
		prefix:       deps.Config.Discord.Prefix,
		autoChannels: make(map[string]struct{}, len(deps.Config.Discord.AutoChannelIDs)),
		handlers:     make(map[string]HandlerFunc),
		timeout:      deps.Config.Discord.CommandTimeout,
	}
	for _, id := range deps.Config.Discord.AutoChannelIDs {
		r.autoChannels[id] = struct{}{}
	}

	for _, rh := range RegisterAllCommands(deps) {
		all := append(append([]Middleware{}, middleware...), rh.Middleware...)
		r.handlers[rh.Name] = chain(rh.Handler, all...)
		deps.Logger.Debug("Registered command", "command", rh.Name)
	}
	return r
}

// Match returns the command a message invokes. Messages in auto channels
// that lack the prefix invoke jp.
func (r *Router) Match(msg *Message) (string, bool) {
	if rest, ok := strings.CutPrefix(msg.Content, r.prefix); ok {
		return strings.ToLower(strings.TrimSpace(rest)), true
	}
	if _, ok := r.autoChannels[msg.ChannelID]; ok {
		return "jp", true
	}
	return "", false
}

// Route runs the command a message invokes and returns the reply to post.
// ok is false when the message is not addressed to the bot.
func (r *Router) Route(ctx context.Context, msg *Message) (Reply, bool) {
	name, ok := r.Match(msg)
	if !ok {
		return Reply{}, false
	}
	msg.Command = name

	handler, exists := r.handlers[name]
	if !exists {
		r.deps.Logger.DebugContext(ctx, "Unknown command", "command", name, "channel_id", msg.ChannelID)
		return Reply{Text: r.deps.Config.Messages.NotFound, AsReply: true}, true
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	reply, err := handler(ctx, msg)
	if err == nil {
		return reply, true
	}

	log := r.deps.Logger.With("command", name, "guild_id", msg.GuildID, "channel_id", msg.ChannelID, "user_id", msg.AuthorID)
	if errors.Is(err, context.DeadlineExceeded) {
		log.WarnContext(ctx, "Command timed out", "error", err)
		return Reply{Text: r.deps.Config.Messages.Timeout, AsReply: true}, true
	}
	log.ErrorContext(ctx, "Command failed", "error", err)
	return Reply{Text: r.deps.Config.Messages.GeneralError, AsReply: true}, true
}
