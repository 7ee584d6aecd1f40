//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of weft",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "weft version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
