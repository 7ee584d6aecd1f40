//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftworks/weft/graph"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Inspect and manage persisted threads",
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the thread ids known to the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSaver(cmd, func(saver graph.Saver) error {
			ids, err := saver.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		})
	},
}

var threadsShowCmd = &cobra.Command{
	Use:   "show <thread-id>",
	Short: "Dump the persisted snapshot of a thread as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSaver(cmd, func(saver graph.Saver) error {
			snapshot, err := saver.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if snapshot == nil {
				return fmt.Errorf("no snapshot for thread %s", args[0])
			}
			out, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <thread-id>",
	Short: "Delete the persisted snapshot of a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSaver(cmd, func(saver graph.Saver) error {
			if err := saver.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted thread %s\n", args[0])
			return nil
		})
	},
}

// withSaver opens the configured store, runs fn and closes the store.
func withSaver(cmd *cobra.Command, fn func(graph.Saver) error) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	saver, err := openSaver(cfg)
	if err != nil {
		return err
	}
	defer saver.Close()
	return fn(saver)
}

func init() {
	threadsCmd.AddCommand(threadsListCmd)
	threadsCmd.AddCommand(threadsShowCmd)
	threadsCmd.AddCommand(threadsDeleteCmd)
	rootCmd.AddCommand(threadsCmd)
}
