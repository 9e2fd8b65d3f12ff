package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/templui/goaltrack/internal/app"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show goal counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				stats, err := a.GoalService.Stats()
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintf(tw, "total\t%d\n", stats.TotalGoals)
				_, _ = fmt.Fprintf(tw, "active\t%d\n", stats.ActiveGoals)
				_, _ = fmt.Fprintf(tw, "completed\t%d\n", stats.CompletedGoals)
				_, _ = fmt.Fprintf(tw, "on hold\t%d\n", stats.OnHoldGoals)
				_, _ = fmt.Fprintf(tw, "archived\t%d\n", stats.ArchivedGoals)
				_, _ = fmt.Fprintf(tw, "trashed\t%d\n", stats.TrashedGoals)
				_, _ = fmt.Fprintf(tw, "avg progress\t%.1f%%\n", stats.AvgProgress)
				return tw.Flush()
			})
		},
	}
}
