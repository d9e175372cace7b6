// Package bot implements the bot lifecycle and component orchestration for
// the reibunbot Discord bot.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/reibun/reibunbot/internal/database"
	"github.com/reibun/reibunbot/internal/discord"
)

// Gateway is the Discord connection the bot runs on. *discordgo.Session
// implements it.
type Gateway interface {
	Open() error
	Close() error
	AddHandler(handler interface{}) func()
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	store     database.Store
	gateway   Gateway
	listener  *discord.Listener
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot with all required dependencies.
func NewBot(
	logger *slog.Logger,
	store database.Store,
	gateway Gateway,
	listener *discord.Listener,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		store:     store,
		gateway:   gateway,
		listener:  listener,
		scheduler: scheduler,
	}
}

// Run starts the bot and all its components, handling graceful shutdown on context cancellation.
// It returns an error if any component fails during startup or execution.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	if err := b.store.Ping(ctx); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Connecting to Discord gateway...")

		remove := b.gateway.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
			b.listener.Handle(gCtx, selfID(s), m.Message)
		})
		defer remove()

		if err := b.gateway.Open(); err != nil {
			b.logger.Error("Failed to open Discord gateway", "error", err)
			return fmt.Errorf("failed to open discord gateway: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, closing Discord gateway...")

		if err := b.gateway.Close(); err != nil {
			b.logger.Error("Error closing Discord gateway", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(gCtx); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}

		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

func selfID(s *discordgo.Session) string {
	if s == nil || s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}
