// Package command holds the cafelist CLI.
package command

import (
	"fmt"

	"cafelist/config"
	"cafelist/database"
	"cafelist/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "cafelist"

var rootCmd = &cobra.Command{
	Use:   "cafelist",
	Short: "A small directory of cafes",
	Long: `cafelist serves a public listing of cafes, a submission form and an
admin area for removing entries.

Running it without a subcommand starts the web server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration, builds the logger and opens the store.
// The caller closes the database and syncs the logger.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
