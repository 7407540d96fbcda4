package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tutorbook/internal/backend"
	"tutorbook/internal/config"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply all pending schema migrations to the SQLite or Postgres store.

The server and the worker also migrate on start; this command lets a
deployment run them as a separate step.

Examples:
  DATA_BACKEND=sqlite SQLITE_DB_PATH=./data/tutorbook.db tutorctl migrate
  DATA_BACKEND=postgres DB_URL=postgres://... tutorctl migrate`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	logCfg := tlog.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logger := tlog.New(logCfg).WithComponent(tlog.ComponentStorage)

	LoadEnvFile(logger)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	switch backend.BackendType(cfg.DataBackend) {
	case backend.SQLiteBackend:
		err = storage.RunMigrations(cfg.SQLiteDBPath)
	case backend.PostgresBackend:
		err = storage.RunPostgresMigrations(cfg.DatabaseURL)
	default:
		return fmt.Errorf("backend %q has no schema to migrate", cfg.DataBackend)
	}
	if err != nil {
		return err
	}

	logger.Info("Migrations applied",
		tlog.FieldOperation, tlog.OpMigrate,
		"backend", cfg.DataBackend)
	fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
	return nil
}
