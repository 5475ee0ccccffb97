// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import "os"

func main() {
	// Execute the root command. Cobra handles parsing the arguments and
	// prints its own usage errors; everything maps to the {0,1} contract.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(CLIExitFailure)
	}
}
