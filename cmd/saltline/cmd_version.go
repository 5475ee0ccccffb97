// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/saltline-io/saltline/pkg/ux"
	"github.com/spf13/cobra"
)

// Build metadata, overridden at build time:
//
//	go build -ldflags "-X main.buildVersion=1.2.0 -X main.buildCommit=$(git rev-parse --short HEAD) -X main.buildDate=$(date -u +%Y-%m-%d)"
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run:   runVersionCommand,
}

func runVersionCommand(cmd *cobra.Command, args []string) {
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		fmt.Printf("saltline %s %s %s\n", buildVersion, buildCommit, buildDate)
		return
	}
	ux.Box("Saltline", fmt.Sprintf("version %s\ncommit  %s\nbuilt   %s",
		buildVersion, buildCommit, buildDate))
}
