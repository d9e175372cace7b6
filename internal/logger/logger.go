// Package logger provides structured logging functionality for reibunbot.
// It uses Go's slog package for logging with configurable levels and formats.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/reibun/reibunbot/internal/bot/handlers"
)

// NewLogger creates a new slog Logger with the specified level and format.
// If jsonOutput is true, logs will be formatted as JSON, otherwise as text.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	logger := New(os.Stdout, levelStr, jsonOutput)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w without touching the default logger.
func New(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(levelStr),
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a configured level name to a slog level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Middleware creates a logging middleware for the command router.
// It tags every command with a request id and logs its start and duration.
func Middleware(log *slog.Logger) handlers.Middleware {
	return func(next handlers.HandlerFunc) handlers.HandlerFunc {
		return func(ctx context.Context, msg *handlers.Message) (handlers.Reply, error) {
			startTime := time.Now()

			logEntry := log.With(
				"request_id", uuid.NewString(),
				"command", msg.Command,
				"message_id", msg.ID,
				"guild_id", msg.GuildID,
				"channel_id", msg.ChannelID,
				"user_id", msg.AuthorID,
				"text_preview", truncateString(msg.Content, 50),
			)

			logEntry.InfoContext(ctx, "Processing command")

			reply, err := next(ctx, msg)

			duration := time.Since(startTime)
			if err != nil {
				logEntry.InfoContext(ctx, "Command returned error", "duration", duration, "error", err)
			} else {
				logEntry.InfoContext(ctx, "Finished processing command", "duration", duration, "reply_length", len(reply.Text))
			}
			return reply, err
		}
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}
