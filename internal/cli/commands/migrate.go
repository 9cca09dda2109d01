package commands

import (
	"github.com/spf13/cobra"

	"cth/internal/config"
	"cth/internal/migration"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	config *config.Config
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand(cfg *config.Config) *MigrateCommand {
	return &MigrateCommand{config: cfg}
}

// Execute runs the command
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	dbManager, err := migration.NewDatabaseManager(mc.config)
	if err != nil {
		return err
	}
	var migrator migration.Migrator = migration.NewSchemaMigrator(dbManager, cmd.OutOrStdout())
	return migrator.Run(cmd.Context())
}
