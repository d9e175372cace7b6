package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reibun/reibunbot/internal/config"
	"github.com/reibun/reibunbot/internal/conversation"
	"github.com/reibun/reibunbot/internal/database"
	"github.com/reibun/reibunbot/internal/logger"
)

func newHistoryCommand(configPath *string) *cobra.Command {
	var serverID int64

	history := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear the stored sentence history of a server",
	}
	history.PersistentFlags().Int64VarP(&serverID, "server", "s", 0, "Discord server (guild) id")
	_ = history.MarkPersistentFlagRequired("server")

	history.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the sentences a server has received",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withConversation(cmd, *configPath, func(svc *conversation.Service) error {
					entries, err := svc.History(cmd.Context(), serverID)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if len(entries) == 0 {
						fmt.Fprintf(out, "no history for server %d\n", serverID)
						return nil
					}
					for i, e := range entries {
						fmt.Fprintf(out, "%d\t%s\t%s\n", i+1, e.Role, e.Content)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the whole history of a server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withConversation(cmd, *configPath, func(svc *conversation.Service) error {
					deleted, err := svc.Clear(cmd.Context(), serverID)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries for server %d\n", deleted, serverID)
					return nil
				})
			},
		},
	)
	return history
}

// withConversation opens the configured database and hands a history-only
// conversation service to fn. Discord and AI settings are not required.
func withConversation(cmd *cobra.Command, configPath string, fn func(*conversation.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadDatabase(configPath)
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	log := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON)
	store := database.NewStore(db, cfg.Database.Driver, log)
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	return fn(conversation.NewService(store, nil, cfg.AI.SystemPrompt, log))
}
