// Package discord connects the command router to the Discord gateway.
package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Intents the bot needs to read commands in servers and direct messages.
// IntentsGuilds delivers GUILD_CREATE, which fills the state cache with
// each server's owner.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// NewSession creates a discordgo session for a bot token. The gateway
// connection is opened later by the bot orchestrator.
func NewSession(token string, logger *slog.Logger) (*discordgo.Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bot "))
	if token == "" {
		return nil, fmt.Errorf("discord bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "discord_session")

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Error("Failed to create Discord session", "error", err)
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = Intents

	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info("Logged in", "user", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))
	})

	log.Info("Discord session created successfully")
	return s, nil
}
