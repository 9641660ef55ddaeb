package cmd

import (
	"fmt"

	"beatmap-cache/core/config"
	"beatmap-cache/core/database"
	"beatmap-cache/core/logger"
	"beatmap-cache/feature/beatmap/models"
	"beatmap-cache/feature/beatmap/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Verify the beatmaps table",
	Long:  `Checks that the beatmaps table has every column the store reads and writes. With --fix, missing columns are created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&logger.Config{Level: "info", Format: "console"})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		table := models.BeatmapRow{}.TableName()
		missing, err := database.MissingColumns(db, table, models.StorageColumns)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", table, err)
		}

		if len(missing) == 0 {
			logg.Info("Schema is up to date", zap.String("table", table))
			return nil
		}

		logg.Warn("Missing columns", zap.String("table", table), zap.Strings("columns", missing))
		if !fixFlag {
			return fmt.Errorf("%d columns missing from %s, run with --fix to create them", len(missing), table)
		}

		if err := store.New(db).Migrate(); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", table, err)
		}
		logg.Info("Schema migrated", zap.String("table", table))
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing columns")
	RootCmd.AddCommand(schemaCmd)
}
