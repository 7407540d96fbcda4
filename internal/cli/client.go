package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tutorbook/internal/core"
	tlog "tutorbook/internal/log"
	"tutorbook/internal/services"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-rate <client-id> <rate>",
		Short: "Change a client's rate",
		Long: `Change a client's rate per session.

Reports always price sessions at the client's current rate, so the change
applies to every period, past months included.

Examples:
  tutorctl client set-rate 3 45.50 --owner 1`,
		Args: cobra.ExactArgs(2),
		RunE: runSetRate,
	})
	return cmd
}

func runSetRate(cmd *cobra.Command, args []string) error {
	owner, err := ownerFlag(cmd)
	if err != nil {
		return err
	}
	clientID, err := parseID(args[0])
	if err != nil {
		return err
	}
	rate, err := core.ParseMoney(args[1])
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", args[1], err)
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		svc := services.NewRecordService(a.store, a.logger.WithComponent(tlog.ComponentStorage).Slog())
		if err := svc.SetClientRate(ctx, owner, clientID, rate); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Client %d rate set to %s\n", clientID, rate)
		return nil
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
