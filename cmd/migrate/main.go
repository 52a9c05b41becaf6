// Command migrate applies and inspects the database schema outside the
// server process. The server also migrates on startup; this tool exists
// for rollbacks and for checking which version a database is at.
//
//	migrate up           apply all pending migrations
//	migrate down -n 1    roll back n migrations
//	migrate version      print the current schema version
//	migrate ping         check that the database is reachable
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/Reanooka-Kumar/TRACE--CIT/internal/config"
	"github.com/Reanooka-Kumar/TRACE--CIT/internal/repository/sqlstore"
)

const app = "trace-migrate"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "Manage the TRACE database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			err := m.Up()
			if errors.Is(err, migrate.ErrNoChange) {
				cmd.Println("schema is up to date")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps < 1 {
			return fmt.Errorf("--steps must be at least 1, got %d", steps)
		}
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Steps(-steps); err != nil {
				return err
			}
			cmd.Printf("rolled back %d migration(s)\n", steps)
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				cmd.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Open the database, applying pending migrations, and ping it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadDatabase()
		if err != nil {
			return err
		}
		db, err := sqlstore.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			return err
		}
		cmd.Printf("%s database reachable\n", db.Driver())
		return nil
	},
}

// withMigrator opens a migrator for the configured database and closes it
// after fn returns.
func withMigrator(fn func(*migrate.Migrate) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	m, err := sqlstore.NewMigrator(sqlstore.DSN(cfg))
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func init() {
	downCmd.Flags().IntP("steps", "n", 1, "number of migrations to roll back")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
		os.Exit(1)
	}
}
