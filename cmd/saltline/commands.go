// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/saltline-io/saltline/cmd/saltline/config"
	"github.com/saltline-io/saltline/pkg/logging"
	"github.com/saltline-io/saltline/pkg/ux"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath       string
	logLevel         string
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	rootCmd = &cobra.Command{
		Use:   "saltline",
		Short: "A cli for the Saltline engineering workflow",
		Long: `Saltline wraps the day-to-day engineering workflow around the
				backend service: a lint gate for CI, report and watch modes for
				local work, and health probes against a running deployment.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}

			// Route package-level slog through the house logger. The
			// default level stays at warn so gate mode forwards only the
			// linter's own output.
			logger := logging.New(logging.Config{
				Level:   logging.ParseLevel(logLevel),
				Service: "saltline",
			})
			logger.SetAsDefault()

			if err := loadConfig(); err != nil {
				ux.Error(fmt.Sprintf("config: %v", err))
				os.Exit(CLIExitFailure)
			}
		},
	}
)

// loadConfig populates the config singleton, honoring --config.
func loadConfig() error {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to an alternate config file (default ~/.saltline/saltline.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full, standard, minimal, or machine (scripting)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
