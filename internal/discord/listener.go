package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/reibun/reibunbot/internal/bot/handlers"
)

// messageSender is the subset of *discordgo.Session used to answer commands.
type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Listener feeds gateway messages to the router and posts the replies.
type Listener struct {
	sender messageSender
	router *handlers.Router
	logger *slog.Logger
}

// NewListener creates a Listener answering through sender.
func NewListener(sender messageSender, router *handlers.Router, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		sender: sender,
		router: router,
		logger: logger.With("component", "discord_listener"),
	}
}

// Handle routes one created message. selfID is the bot's own user id;
// messages from it are ignored.
func (l *Listener) Handle(ctx context.Context, selfID string, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.ID == selfID {
		return
	}

	msg := &handlers.Message{
		ID:        m.ID,
		AuthorID:  m.Author.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}

	reply, ok := l.router.Route(ctx, msg)
	if !ok || reply.Text == "" {
		return
	}

	var err error
	if reply.AsReply {
		_, err = l.sender.ChannelMessageSendReply(m.ChannelID, reply.Text, m.Reference(), discordgo.WithContext(ctx))
	} else {
		_, err = l.sender.ChannelMessageSend(m.ChannelID, reply.Text, discordgo.WithContext(ctx))
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to send reply", "error", err,
			"command", msg.Command, "channel_id", m.ChannelID, "message_id", m.ID)
	}
}
