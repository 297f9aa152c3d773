//cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/unclebandit/influencer-outreach/internal/config"
	"github.com/unclebandit/influencer-outreach/internal/db"
	"github.com/unclebandit/influencer-outreach/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "seeder",
		Short:         "Database migrations and sample data for the outreach dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before the environment")

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run the embedded schema migrations",
		ValidArgs: []string{"up", "down", "status"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect(cmd.Context(), envFile)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(conn, args[0]); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s completed\n", args[0])
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample contacts and templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := connect(cmd.Context(), envFile)
			if err != nil {
				return err
			}
			defer conn.Close()

			files, err := db.Seed(cmd.Context(), conn)
			report(cmd.OutOrStdout(), files)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database seeding completed successfully!")
			return nil
		},
	}

	root.AddCommand(migrateCmd, seedCmd)
	return root
}

func connect(ctx context.Context, envFile string) (*sql.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return db.Open(ctx, cfg.DSN(), logger.New(cfg.AppEnv, ""))
}

func report(w io.Writer, files []string) {
	for _, f := range files {
		fmt.Fprintf(w, "Seeded: %s\n", f)
	}
}
