// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the ClipVault CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clipvault",
		Short: "ClipVault - shared clipboard service",
		Long: `ClipVault is a clipboard-sharing service with per-user item
storage and short share codes for unauthenticated redemption.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
