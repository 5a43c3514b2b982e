// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buda-base/etext-sync/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <work>",
	Short: "Fetch a work's outline and save it to a file",
	Long: `Outline fetches the content locations of a work from the outline service and
saves them as a YAML file. The file can be edited and passed to segment or
sync with --outline, so a correction does not require touching the service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := syncConfig()
		out, _ := cmd.Flags().GetString("out")

		o, err := outline.Fetch(cmd.Context(), cfg.Outline, args[0])
		if err != nil {
			return err
		}
		if len(o.Locations) == 0 {
			fmt.Fprintf(os.Stderr, "no outline recorded for %s\n", args[0])
		}
		if err := o.WriteFile(out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d location(s) to %s\n", len(o.Locations), out)
		return nil
	},
}

func init() {
	outlineCmd.Flags().String("out", "outline.yaml", "output file")

	rootCmd.AddCommand(outlineCmd)
}
