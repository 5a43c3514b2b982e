// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buda-base/etext-sync/internal/catalog"
)

var statusCmd = &cobra.Command{
	Use:   "status <instance>",
	Short: "Show the last recorded sync run for an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(syncConfig().Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		sum, err := store.LastRun(args[0])
		if err != nil {
			return err
		}
		if sum == nil {
			fmt.Printf("%s has never been synced\n", args[0])
			return nil
		}
		fmt.Printf("run %d: %s\n", sum.ID, sum.Instance)
		fmt.Printf("  started:   %s\n", sum.Started)
		fmt.Printf("  finished:  %s\n", sum.Finished)
		fmt.Printf("  status:    %s\n", sum.Status)
		fmt.Printf("  volumes:   %d\n", sum.Volumes)
		fmt.Printf("  documents: %d\n", sum.Documents)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
