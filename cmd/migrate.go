package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemovox/recorder/internal/database"
	"github.com/mnemovox/recorder/internal/models"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Bring the database schema up to date.

The schema is managed through GORM auto-migration, so this is safe to run
repeatedly and on every deploy.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Recording{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database %s migrated\n", cfg.Database.Path)
	return nil
}
