// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/store"
)

// NewMigrateCmd creates the migrate subcommand with up, down, and version
// actions.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				cmd.Println("Running migrations...")
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (drops all tables and data)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				cmd.Println("Rolling back all migrations...")
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Rollback completed successfully")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *store.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					cmd.Println("No migrations applied")
					return nil
				}
				cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

// resolveDatabaseURL picks the connection URL for migrations: the config
// file's database_url when --config is given, falling back to the
// DATABASE_URL environment variable. Only that one key is read; the rest
// of the server configuration is not required here.
func resolveDatabaseURL() (string, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if configFile != "" {
		fileURL, err := config.DatabaseURL(configFile)
		if err != nil {
			return "", err
		}
		if fileURL != "" {
			databaseURL = fileURL
		}
	}
	if databaseURL == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("database_url is required (config file or DATABASE_URL)")
	}
	return databaseURL, nil
}

// withMigrator resolves the database URL, runs fn, and closes the migrator.
func withMigrator(fn func(*store.Migrator) error) error {
	databaseURL, err := resolveDatabaseURL()
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck

	return fn(migrator)
}
