// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/buda-base/etext-sync/internal/standoff"
)

var convertCmd = &cobra.Command{
	Use:   "convert [volumes...]",
	Short: "Convert TEI source documents to annotated plain text",
	Long: `Convert transforms the TEI documents of the named volumes (all volumes when
none are named) into plain text with standoff annotations. Each document
produces a .txt file and an annotations .yaml file in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := syncConfig()
		outDir, _ := cmd.Flags().GetString("out")

		vols, err := standoff.Volumes(cfg.Conversion.ArchiveDir)
		if err != nil {
			return err
		}
		vols = selectVolumes(vols, args)
		if len(vols) == 0 {
			return fmt.Errorf("no matching volumes")
		}

		for _, vol := range vols {
			docs, err := standoff.ConvertDir(vol.Dir, os.Stderr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "volume %s: %v\n", vol.Name, err)
				continue
			}
			dir := filepath.Join(outDir, vol.Name)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			for _, doc := range docs {
				if err := os.WriteFile(filepath.Join(dir, doc.Name+".txt"), []byte(doc.Text), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", doc.Name, err)
				}
				data, err := yaml.Marshal(doc.Annotations)
				if err != nil {
					return fmt.Errorf("marshaling annotations for %s: %w", doc.Name, err)
				}
				if err := os.WriteFile(filepath.Join(dir, doc.Name+".annotations.yaml"), data, 0o644); err != nil {
					return fmt.Errorf("writing annotations for %s: %w", doc.Name, err)
				}
			}
		}
		return nil
	},
}

// selectVolumes filters vols to the named subset, keeping archive order. An
// empty selection means every volume.
func selectVolumes(vols []standoff.Volume, names []string) []standoff.Volume {
	if len(names) == 0 {
		return vols
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []standoff.Volume
	for _, v := range vols {
		if wanted[v.Name] {
			out = append(out, v)
		}
	}
	return out
}

func init() {
	convertCmd.Flags().String("out", "converted", "output directory")

	rootCmd.AddCommand(convertCmd)
}
