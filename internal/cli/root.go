package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tutorbook/internal/backend"
	"tutorbook/internal/config"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/stats"
)

// NewRootCommand builds the tutorctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tutorctl",
		Short: "Reports and maintenance for the tutoring record store",
		Long: `tutorctl runs the tutoring reports against the configured record store
and performs maintenance: schema migrations, seeding and rate changes.

The store is selected with the same environment as the server
(DATA_BACKEND, SQLITE_DB_PATH, DB_URL, SEED_FILE, TIMEZONE). A .env file in
the working directory is loaded first.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Int64P("owner", "o", 0, "Owner (tutor) ID the command acts for")

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newClientCmd())
	return root
}

// Execute runs tutorctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is what a command needs to talk to the store.
type app struct {
	cfg     *config.Config
	logger  *tlog.Logger
	store   backend.Store
	cleanup backend.CleanupFunc
}

// openApp loads configuration and opens the record store. Logs go to stderr
// so command output stays machine readable.
func openApp(cmd *cobra.Command) (*app, error) {
	logCfg := tlog.DefaultConfig()
	logCfg.Level = tlog.ParseLevel(os.Getenv("LOG_LEVEL"))
	logCfg.Output = cmd.ErrOrStderr()
	logger := tlog.New(logCfg)

	LoadEnvFile(logger)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := OpenStore(cmd.Context(), logger, cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: res.Store, cleanup: res.Cleanup}, nil
}

func (a *app) Close() {
	if a.cleanup == nil {
		return
	}
	if err := a.cleanup(); err != nil {
		a.logger.Warn("Failed to close store", tlog.FieldError, err)
	}
}

func (a *app) reports() *stats.Service {
	return stats.NewService(a.store,
		stats.WithLocation(a.cfg.Location()),
		stats.WithLogger(a.logger.WithComponent(tlog.ComponentStats).Slog()))
}

// ownerFlag returns --owner, which every record command requires.
func ownerFlag(cmd *cobra.Command) (int64, error) {
	owner, err := cmd.Flags().GetInt64("owner")
	if err != nil {
		return 0, err
	}
	if owner <= 0 {
		return 0, fmt.Errorf("--owner is required")
	}
	return owner, nil
}

// withApp opens the store for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
