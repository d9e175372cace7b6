package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reibun/reibunbot/internal/ai"
	"github.com/reibun/reibunbot/internal/bot"
	"github.com/reibun/reibunbot/internal/bot/handlers"
	"github.com/reibun/reibunbot/internal/bot/tasks"
	"github.com/reibun/reibunbot/internal/config"
	"github.com/reibun/reibunbot/internal/conversation"
	"github.com/reibun/reibunbot/internal/database"
	"github.com/reibun/reibunbot/internal/discord"
	"github.com/reibun/reibunbot/internal/logger"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and answer commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

// serve initializes every component (config, logger, db, ai client, discord
// session, scheduler) and runs the bot until ctx is cancelled.
func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", "driver", cfg.Database.Driver, "error", err)
		return err
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, cfg.Database.Driver, log)

	aiClient, err := ai.NewClient(ctx, cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize AI client", "error", err)
		return err
	}

	session, err := discord.NewSession(cfg.Discord.Token, log)
	if err != nil {
		log.Error("Failed to create Discord session", "error", err)
		return err
	}

	hDeps := handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Conversation: conversation.NewService(store, aiClient, cfg.AI.SystemPrompt, log),
		Owners:       discord.NewGuildOwners(session),
		Typing:       discord.Typing(session, discord.TypingInterval, log),
	}
	router := handlers.NewRouter(hDeps, logger.Middleware(log))
	listener := discord.NewListener(session, router, log)

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	app := bot.NewBot(log, store, session, listener, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished.")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("bot stopped: %w", runErr)
	}

	log.Info("Bot stopped gracefully.")
	return nil
}
