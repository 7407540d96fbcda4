package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	tlog "tutorbook/internal/log"
	"tutorbook/internal/services"
	"tutorbook/internal/storage/memory"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Import clients and sessions from a seed file",
		Long: `Import clients and sessions from a JSON seed file into the configured store.

The file has the same format as SEED_FILE for the memory backend. The store
assigns new IDs; sessions are linked to the clients created from the same
file, and sessions whose client is missing from the file are skipped.

Examples:
  DATA_BACKEND=sqlite tutorctl seed ./testdata/seed.json`,
		Args: cobra.ExactArgs(1),
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	seed, err := memory.LoadSeedFile(args[0])
	if err != nil {
		return err
	}
	clients, sessions, err := seed.Records()
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		svc := services.NewRecordService(a.store, a.logger.WithComponent(tlog.ComponentStorage).Slog())
		res, err := svc.Import(ctx, clients, sessions)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d clients and %d sessions (%d skipped)\n",
			res.Clients, res.Sessions, res.Skipped)
		return nil
	})
}
