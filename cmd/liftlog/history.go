package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/tracker"
)

var (
	historyLimit  int
	summaryBucket string
	summarySince  string
	summaryUntil  string
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Browse completed sessions",
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List completed sessions, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := tracker.History(cmd.Context(), app.client, historyLimit)
		if err != nil {
			return err
		}
		renderSessions(cmd.OutOrStdout(), sessions)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show SESSION_ID",
	Short: "Show a completed session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := tracker.LoadHistoryDetail(cmd.Context(), app.client, args[0])
		if err != nil {
			return err
		}
		renderView(cmd.OutOrStdout(), v, app.lang)
		return nil
	},
}

var historySummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Sets, reps and tonnage per week or month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		end := time.Now()
		if summaryUntil != "" {
			t, err := time.ParseInLocation("2006-01-02", summaryUntil, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --until: %w", err)
			}
			end = t.AddDate(0, 0, 1)
		}
		start := end.AddDate(0, -3, 0)
		if summarySince != "" {
			t, err := time.ParseInLocation("2006-01-02", summarySince, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --since: %w", err)
			}
			start = t
		}

		periods, err := app.client.TrainingSummary(cmd.Context(), start, end, summaryBucket)
		if err != nil {
			return err
		}
		renderSummary(cmd.OutOrStdout(), periods)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "max number of sessions (0 for all)")
	historySummaryCmd.Flags().StringVar(&summaryBucket, "bucket", "week", "aggregation period (week, month)")
	historySummaryCmd.Flags().StringVar(&summarySince, "since", "", "start date YYYY-MM-DD (default 3 months ago)")
	historySummaryCmd.Flags().StringVar(&summaryUntil, "until", "", "end date YYYY-MM-DD, inclusive (default today)")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historySummaryCmd)
	rootCmd.AddCommand(historyCmd)
}
