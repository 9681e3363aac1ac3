package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vytor/chesspulse/internal/app"
	"github.com/vytor/chesspulse/internal/config"
	"github.com/vytor/chesspulse/internal/logger"
)

var (
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "chesspulse",
	Short: "chess.com game ingestion and stats",
	Long:  "Ingest a player's recent chess.com games into the local event store and report win rates, streaks and weak spots.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDefault(logger.New(
			logger.WithLevel(logger.ParseLevel(logLevel)),
			logger.WithColors(true),
			logger.WithOutput(os.Stderr),
		))
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (defaults to DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statsCmd)
}

func openApp() (*app.App, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}
	return a, nil
}
