package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/godilite/fieldops-server/internal/service"
	"github.com/godilite/fieldops-server/internal/trend"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	eventsFile string
	teamsFile  string
	anchor     string
	outputFile string
	verbose    bool
	stdout     io.Writer
}

func (o *rootOptions) service() (*service.TrendService, error) {
	repo, err := loadRepository(o.eventsFile, o.teamsFile)
	if err != nil {
		return nil, err
	}
	cal, err := trend.ParseAnchor(o.anchor)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if o.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	return service.NewTrendService(repo, cal, logger), nil
}

// run loads the inputs, calls fn and writes its result.
func (o *rootOptions) run(ctx context.Context, fn func(ctx context.Context, svc *service.TrendService) (any, error)) error {
	svc, err := o.service()
	if err != nil {
		return err
	}
	result, err := fn(ctx, svc)
	if err != nil {
		return err
	}

	w, err := newWriter(o.outputFile, o.stdout)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.write(result)
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout}

	rootCmd := &cobra.Command{
		Use:   "trendctl",
		Short: "Weekly trends and violation ledgers for field teams",
		Long: `trendctl runs the trend engine over exported evaluation files.

Examples:
  # Weekly reason trend for January
  trendctl weekly --events events.json --start 2025-01-01 --end 2025-01-31

  # Current status of every team, lifecycle flags from the directory export
  trendctl status --events events.json --teams teams.json --output status.json`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.eventsFile, "events", "e", "", "JSON array of evaluations")
	flags.StringVarP(&opts.teamsFile, "teams", "t", "", "JSON array of team directory entries")
	flags.StringVar(&opts.anchor, "anchor", trend.DefaultAnchor.Format("2006-01-02"), "Week 1 start date (YYYY-MM-DD)")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file (default stdout)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(weeklyCmd(opts))
	rootCmd.AddCommand(ledgerCmd(opts))
	rootCmd.AddCommand(statusCmd(opts))
	rootCmd.AddCommand(leaderboardCmd(opts))
	rootCmd.AddCommand(unscheduledCmd(opts))
	rootCmd.AddCommand(prioritiesCmd(opts))

	return rootCmd
}

func parseFlagDate(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, raw)
	}
	return t, nil
}

func weeklyCmd(opts *rootOptions) *cobra.Command {
	var startFlag, endFlag string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Reason and category counts per week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseFlagDate("start", startFlag)
			if err != nil {
				return err
			}
			end, err := parseFlagDate("end", endFlag)
			if err != nil {
				return err
			}
			return opts.run(cmd.Context(), func(ctx context.Context, svc *service.TrendService) (any, error) {
				return svc.GetWeeklyTrend(ctx, start, end)
			})
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "Last day to include (YYYY-MM-DD)")
	return cmd
}

func reports(ctx context.Context, svc *service.TrendService, team string) ([]service.TeamReport, error) {
	if team != "" {
		r, err := svc.GetTeamReport(ctx, team)
		if err != nil {
			return nil, fmt.Errorf("team %q: %w", team, err)
		}
		return []service.TeamReport{r}, nil
	}
	return svc.GetTeamReports(ctx)
}

func ledgerCmd(opts *rootOptions) *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Detractor/neutral totals and the first violation crossing per team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), func(ctx context.Context, svc *service.TrendService) (any, error) {
				rs, err := reports(ctx, svc, team)
				if err != nil {
					return nil, err
				}
				ledgers := make([]trend.Ledger, 0, len(rs))
				for _, r := range rs {
					ledgers = append(ledgers, r.Ledger)
				}
				return ledgers, nil
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Only this team")
	return cmd
}

type statusRow struct {
	TeamName  string          `json:"team_name"`
	Status    trend.Status    `json:"status"`
	Lifecycle trend.Lifecycle `json:"lifecycle"`
}

func statusCmd(opts *rootOptions) *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Current status label and consequence per team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), func(ctx context.Context, svc *service.TrendService) (any, error) {
				rs, err := reports(ctx, svc, team)
				if err != nil {
					return nil, err
				}
				rows := make([]statusRow, 0, len(rs))
				for _, r := range rs {
					rows = append(rows, statusRow{TeamName: r.TeamName, Status: r.Status, Lifecycle: r.Lifecycle})
				}
				return rows, nil
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Only this team")
	return cmd
}

func leaderboardCmd(opts *rootOptions) *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Cumulative as-of standings for every week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weekSet := cmd.Flags().Changed("week")
			return opts.run(cmd.Context(), func(ctx context.Context, svc *service.TrendService) (any, error) {
				boards, err := svc.GetLeaderboards(ctx)
				if err != nil {
					return nil, err
				}
				if !weekSet {
					return boards, nil
				}
				for _, b := range boards {
					if b.Week == week {
						return b, nil
					}
				}
				return nil, fmt.Errorf("week %d has no evaluations", week)
			})
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Only this week")
	return cmd
}

func unscheduledCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unscheduled",
		Short: "Evaluations without a usable date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), func(ctx context.Context, svc *service.TrendService) (any, error) {
				return svc.GetUnscheduled(ctx)
			})
		},
	}
}

func prioritiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "priorities",
		Short: "Evaluation counts per ticket priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), func(ctx context.Context, svc *service.TrendService) (any, error) {
				return svc.GetPriorityBreakdown(ctx)
			})
		},
	}
}
