//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weftworks/weft/log"
)

var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "weft manages the snapshot stores of weft graph executions",
	Long: `weft inspects and manages the checkpoint stores used by weft graph
executions. It can list known thread ids, dump the persisted snapshot of a
thread and delete stale runs, against a SQLite or Redis backend chosen by a
YAML config file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		log.SetLevel(level)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "weft.yaml", "Path to the store config file")
	rootCmd.PersistentFlags().String("log-level", log.LevelInfo, "Log level: debug, info, warn, error, fatal")
}
