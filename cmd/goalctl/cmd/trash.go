package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/templui/goaltrack/internal/app"
)

func trashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect and manage soft-deleted goals",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				goals, err := a.GoalService.Trash()
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPROGRESS\tDELETED")
				for _, g := range goals {
					deleted := ""
					if g.DeletedAt != nil {
						deleted = g.DeletedAt.Format(time.RFC3339)
					}
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d%%\t%s\n", g.ID, g.Title, g.Status, g.Progress, deleted)
				}
				return tw.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <id>",
		Short: "Move a goal out of the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				err := a.GoalService.Restore(id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restored goal %d\n", id)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "purge <id>",
		Short: "Permanently delete a goal with its entries, images and milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app.App) error {
				err := a.GoalService.PermanentDelete(id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "purged goal %d\n", id)
				return nil
			})
		},
	})

	return cmd
}
