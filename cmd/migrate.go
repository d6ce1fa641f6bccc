package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/monthly-budget/db"
	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db/migrations files against the state file",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != internal.StorageDriverSQLite {
		return fmt.Errorf("migrate needs the sqlite driver, got %q", cfg.Storage.Driver)
	}

	gdb, err := db.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.Migrate(ctx, gdb, migrateRollback); err != nil {
		return err
	}

	version, err := db.Version(ctx, gdb)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s at schema version %d\n", cfg.Storage.Path, version)
	return nil
}
