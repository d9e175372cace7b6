package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reibun/reibunbot/internal/config"
	"github.com/reibun/reibunbot/internal/database"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDatabase(*configPath)
			if err != nil {
				return err
			}

			db, err := database.NewDB(cfg.Database)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			fmt.Fprintf(cmd.OutOrStdout(), "%s database is up to date\n", cfg.Database.Driver)
			return nil
		},
	}
}
