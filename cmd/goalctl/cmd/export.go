package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/templui/goaltrack/internal/app"
	"github.com/templui/goaltrack/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		goalIDs []int64
		format  string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export goals as Markdown or as a zip archive with images",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(goalIDs) == 0 {
				return fmt.Errorf("at least one --goal is required")
			}
			if format != "md" && format != "zip" {
				return fmt.Errorf("unknown format %q, use md or zip", format)
			}
			if out == "" {
				out = export.Filename(time.Now(), "."+format)
			}

			return withApp(func(a *app.App) error {
				return writeExport(a, goalIDs, format, out, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().Int64SliceVarP(&goalIDs, "goal", "g", nil, "Goal id to export (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "md", "Output format: md or zip")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path, - for stdout (default: goals-export-<timestamp>.<format>)")
	return cmd
}

func writeExport(a *app.App, goalIDs []int64, format, out string, stdout io.Writer) error {
	write := func(w io.Writer) error {
		if format == "zip" {
			return a.ExportService.WriteArchive(w, goalIDs)
		}
		doc, err := a.ExportService.Markdown(goalIDs)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, doc)
		return err
	}

	if out == "-" {
		return write(stdout)
	}

	err := writeFile(out, write)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "wrote %s\n", out)
	return nil
}

// writeFile creates path and hands it to write. A failed write or close
// removes the partial file.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return write(f)
}
