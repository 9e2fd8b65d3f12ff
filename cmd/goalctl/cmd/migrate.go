package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/goaltrack/internal/config"
	"github.com/templui/goaltrack/internal/db"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(conn *sql.DB, driver string) error {
				err := db.RunMigrations(conn, driver)
				if err != nil {
					return err
				}
				return printVersion(cmd, conn, driver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(conn *sql.DB, driver string) error {
				err := db.MigrateDown(conn, driver)
				if err != nil {
					return err
				}
				return printVersion(cmd, conn, driver)
			})
		},
	})

	return cmd
}

// withDB connects without migrating so down can run on any schema version.
func withDB(fn func(conn *sql.DB, driver string) error) error {
	cfg := config.Load()
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()
	return fn(database.DB, cfg.DBDriver)
}

func printVersion(cmd *cobra.Command, conn *sql.DB, driver string) error {
	version, err := db.Version(conn, driver)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
