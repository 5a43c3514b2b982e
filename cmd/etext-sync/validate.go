// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/buda-base/etext-sync/internal/standoff"
	"github.com/buda-base/etext-sync/internal/tei"
)

var validateCmd = &cobra.Command{
	Use:   "validate [volumes...]",
	Short: "Check source documents against the supported markup subset",
	Long: `Validate parses every TEI document of the named volumes (all volumes when
none are named) and reports documents that fail to parse, lack a body, or use
markup outside the supported subset. Issues are advisory; conversion drops
unsupported markup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := syncConfig()

		vols, err := standoff.Volumes(cfg.Conversion.ArchiveDir)
		if err != nil {
			return err
		}
		vols = selectVolumes(vols, args)
		if len(vols) == 0 {
			return fmt.Errorf("no matching volumes")
		}

		problems := 0
		for _, vol := range vols {
			paths, err := filepath.Glob(filepath.Join(vol.Dir, "*.xml"))
			if err != nil {
				return err
			}
			sort.Strings(paths)
			for _, path := range paths {
				doc, err := tei.ParseFile(path)
				if err != nil {
					fmt.Printf("%s: %v\n", path, err)
					problems++
					continue
				}
				for _, issue := range doc.Validate() {
					fmt.Printf("%s: %s\n", path, issue)
					problems++
				}
			}
		}

		if problems > 0 {
			fmt.Fprintf(os.Stderr, "%d issue(s) found\n", problems)
		} else {
			fmt.Fprintln(os.Stderr, "no issues found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
