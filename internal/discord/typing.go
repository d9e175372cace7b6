package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/reibun/reibunbot/internal/bot/handlers"
)

// TypingInterval refreshes the indicator before Discord's ~10s expiry.
const TypingInterval = 8 * time.Second

type typingSender interface {
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Typing creates a middleware that shows the typing indicator in the
// command's channel until the handler returns.
func Typing(sender typingSender, interval time.Duration, logger *slog.Logger) handlers.Middleware {
	return func(next handlers.HandlerFunc) handlers.HandlerFunc {
		return func(ctx context.Context, msg *handlers.Message) (handlers.Reply, error) {
			typingCtx, stop := context.WithCancel(ctx)
			done := make(chan struct{})
			go func() {
				defer close(done)
				sendContinuousTyping(typingCtx, sender, interval, msg.ChannelID, logger)
			}()

			reply, err := next(ctx, msg)
			stop()
			<-done
			return reply, err
		}
	}
}

func sendContinuousTyping(ctx context.Context, sender typingSender, interval time.Duration, channelID string, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := sender.ChannelTyping(channelID, discordgo.WithContext(ctx)); err != nil {
		if ctx.Err() == nil {
			logger.Debug("Failed to send initial typing indicator", "error", err, "channel_id", channelID)
		}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sender.ChannelTyping(channelID, discordgo.WithContext(ctx)); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Debug("Typing indicator failed", "error", err, "channel_id", channelID)
			}
		}
	}
}
