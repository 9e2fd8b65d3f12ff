package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/goaltrack/internal/app"
	"github.com/templui/goaltrack/internal/config"
	"github.com/templui/goaltrack/internal/logger"
)

// Root builds the goalctl command tree. Settings come from the same
// environment and .env file as the server.
func Root() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "goalctl",
		Short:         "Maintenance tools for goaltrack data",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.Init(true, "", "cli")
				return
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(trashCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(migrateCmd())
	return rootCmd
}

// withApp opens the database, runs fn and closes it again.
func withApp(fn func(a *app.App) error) error {
	a, err := app.New(config.Load())
	if err != nil {
		return err
	}
	defer func() {
		closeErr := a.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()
	return fn(a)
}

func parseID(arg string) (int64, error) {
	var id int64
	_, err := fmt.Sscan(arg, &id)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
