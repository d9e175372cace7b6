package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type guildFetcher interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
}

// GuildOwners resolves server owners from the gateway state cache and falls
// back to the REST API for servers not cached yet.
type GuildOwners struct {
	state *discordgo.State
	rest  guildFetcher
}

// NewGuildOwners creates a resolver backed by the session's state and REST client.
func NewGuildOwners(s *discordgo.Session) *GuildOwners {
	return &GuildOwners{state: s.State, rest: s}
}

// GuildOwner returns the user id of the server owner.
func (o *GuildOwners) GuildOwner(ctx context.Context, guildID string) (string, error) {
	if o.state != nil {
		if g, err := o.state.Guild(guildID); err == nil && g.OwnerID != "" {
			return g.OwnerID, nil
		}
	}

	g, err := o.rest.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}
	if g.OwnerID == "" {
		return "", fmt.Errorf("guild %s has no owner id", guildID)
	}
	return g.OwnerID, nil
}
