package handlers

import (
	"context"
	"log/slog"

	"github.com/reibun/reibunbot/internal/config"
)

// Conversation is the part of the conversation service the commands use.
type Conversation interface {
	Generate(ctx context.Context, serverID int64) (string, error)
	Clear(ctx context.Context, serverID int64) (int64, error)
}

// OwnerResolver looks up the owner of a Discord server.
type OwnerResolver interface {
	GuildOwner(ctx context.Context, guildID string) (string, error)
}

// HandlerDeps provides dependencies for Discord command handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Conversation Conversation
	Owners       OwnerResolver
	// Typing wraps the commands that wait on the database or the AI. Nil
	// disables it.
	Typing Middleware
}
