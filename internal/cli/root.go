// Package cli contains the cobra commands of reibunbot.
//
// Running the binary without a subcommand starts the bot, the same as
// `reibunbot serve`.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "reibunbot",
		Short: "Discord bot that hands out Japanese example sentences",
		Long: `reibunbot answers !jp with a Japanese sentence, its Hiragana reading
and an English translation, and remembers per server which sentences it
already gave so it does not repeat itself.

Configuration comes from config.yaml, a .env file and REIBUN_* environment
variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default ./config.yaml)")

	root.AddCommand(
		newServeCommand(&configPath),
		newMigrateCommand(&configPath),
		newHistoryCommand(&configPath),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
