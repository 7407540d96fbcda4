package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tutorbook/internal/core"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report as JSON",
		Long: `Print one of the tutoring reports for --owner as JSON. The output has the
same shape as the matching /api/stats endpoint.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Counts, today's, upcoming and unpaid sessions",
		Args:  cobra.NoArgs,
		RunE: reportRunner(func(ctx context.Context, a *app, owner int64, _ *cobra.Command) (any, error) {
			return a.reports().Dashboard(ctx, owner)
		}),
	})

	financial := &cobra.Command{
		Use:     "financial",
		Short:   "Monthly revenue over a trailing window",
		Example: `  tutorctl report financial --owner 1
  tutorctl report financial --owner 1 --months 12`,
		Args: cobra.NoArgs,
		RunE: reportRunner(func(ctx context.Context, a *app, owner int64, cmd *cobra.Command) (any, error) {
			months, _ := cmd.Flags().GetInt("months")
			return a.reports().FinancialSummary(ctx, owner, months)
		}),
	}
	financial.Flags().Int("months", 0, "Months back from today (0 selects the default of 6)")
	cmd.AddCommand(financial)

	cmd.AddCommand(&cobra.Command{
		Use:   "activity",
		Short: "Session counts per payment status",
		Args:  cobra.NoArgs,
		RunE: reportRunner(func(ctx context.Context, a *app, owner int64, _ *cobra.Command) (any, error) {
			return a.reports().ActivityBreakdown(ctx, owner)
		}),
	})

	monthly := &cobra.Command{
		Use:     "monthly",
		Short:   "Summary of one calendar month",
		Example: `  tutorctl report monthly --owner 1 --year 2024 --month 3`,
		Args:    cobra.NoArgs,
		RunE: reportRunner(func(ctx context.Context, a *app, owner int64, cmd *cobra.Command) (any, error) {
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")
			return a.reports().MonthlySummary(ctx, owner, year, month)
		}),
	}
	monthly.Flags().Int("year", 0, "Calendar year")
	monthly.Flags().Int("month", 0, "Month, 1-12")
	cmd.AddCommand(monthly)

	period := &cobra.Command{
		Use:     "period",
		Short:   "Summary of an arbitrary date range",
		Example: `  tutorctl report period --owner 1 --from 2024-01-01 --to 2024-03-31`,
		Args:    cobra.NoArgs,
		RunE: reportRunner(func(ctx context.Context, a *app, owner int64, cmd *cobra.Command) (any, error) {
			from, err := dateFlag(cmd, "from")
			if err != nil {
				return nil, err
			}
			to, err := dateFlag(cmd, "to")
			if err != nil {
				return nil, err
			}
			return a.reports().PeriodSummary(ctx, owner, from, to)
		}),
	}
	period.Flags().String("from", "", "First day, YYYY-MM-DD")
	period.Flags().String("to", "", "Last day, YYYY-MM-DD")
	cmd.AddCommand(period)

	client := &cobra.Command{
		Use:     "client <client-id>",
		Short:   "Totals for a single client",
		Example: `  tutorctl report client 3 --owner 1`,
		Args:    cobra.ExactArgs(1),
		RunE: reportRunner(func(ctx context.Context, a *app, owner int64, cmd *cobra.Command) (any, error) {
			id, err := parseID(cmd.Flags().Arg(0))
			if err != nil {
				return nil, err
			}
			return a.reports().ClientStats(ctx, owner, id)
		}),
	}
	cmd.AddCommand(client)

	return cmd
}

type reportFunc func(ctx context.Context, a *app, owner int64, cmd *cobra.Command) (any, error)

func reportRunner(fn reportFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		owner, err := ownerFlag(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			out, err := fn(ctx, a, owner, cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		})
	}
}

// dateFlag parses a YYYY-MM-DD flag. Empty yields the zero date, which the
// report rejects as a missing bound.
func dateFlag(cmd *cobra.Command, name string) (core.Date, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
