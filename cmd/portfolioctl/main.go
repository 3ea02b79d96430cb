// Command portfolioctl runs maintenance tasks against the portfolio database:
// migrations, bulk imports and admin password hashing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"portfolio/config"
	"portfolio/database"
	"portfolio/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portfolioctl",
		Short:        "Maintenance commands for the portfolio service",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newImportPostsCmd(),
		newImportSubscribersCmd(),
		newHashPasswordCmd(),
	)
	return root
}

// openDB loads configuration the same way the server does and connects.
func openDB(ctx context.Context) (*database.DB, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL not set")
	}

	log := logger.New(cfg.Env)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All migrations completed!")
			return nil
		},
	}
}
