// Package handlers contains Discord command handlers, along with their
// registration logic, routing and middleware.
package handlers

import (
	"context"
	"fmt"
)

// ServerOnly creates a middleware that rejects commands sent outside a server.
func ServerOnly(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg *Message) (Reply, error) {
			if !msg.InServer() {
				deps.Logger.DebugContext(ctx, "Server-only command used outside a server",
					"command", msg.Command, "user_id", msg.AuthorID, "channel_id", msg.ChannelID)
				return Reply{Text: deps.Config.Messages.ServerOnly, AsReply: true}, nil
			}
			return next(ctx, msg)
		}
	}
}

// OwnerOrAdmin creates a middleware that lets only the server owner or the
// configured admin user through. Anyone else gets the "not authorized" reply.
func OwnerOrAdmin(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg *Message) (Reply, error) {
			if deps.Config.Discord.IsAdmin(msg.AuthorID) {
				return next(ctx, msg)
			}

			ownerID, err := deps.Owners.GuildOwner(ctx, msg.GuildID)
			if err != nil {
				return Reply{}, fmt.Errorf("failed to resolve owner of server %s: %w", msg.GuildID, err)
			}

			if msg.AuthorID != ownerID {
				deps.Logger.WarnContext(ctx, "Unauthorized access attempt",
					"command", msg.Command, "user_id", msg.AuthorID, "guild_id", msg.GuildID)
				return Reply{Text: deps.Config.Messages.NotAuthorized, AsReply: true}, nil
			}

			return next(ctx, msg)
		}
	}
}
