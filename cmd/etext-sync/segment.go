// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/buda-base/etext-sync/internal/outline"
	"github.com/buda-base/etext-sync/internal/standoff"
	"github.com/buda-base/etext-sync/pkg/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [volumes...]",
	Short: "Re-segment converted volumes into logical documents",
	Long: `Segment converts the named volumes (all volumes when none are named) and cuts
them into logical documents along the content locations of an outline. With
no outline, each source document becomes one logical document. Each logical
document produces a .txt and an annotations .yaml file in the output
directory; segmentation warnings and errors go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := syncConfig()
		outDir, _ := cmd.Flags().GetString("out")
		outlinePath, _ := cmd.Flags().GetString("outline")
		work, _ := cmd.Flags().GetString("work")

		o, err := loadOutline(cmd, outlinePath, work)
		if err != nil {
			return err
		}

		vols, err := standoff.Volumes(cfg.Conversion.ArchiveDir)
		if err != nil {
			return err
		}
		vols = selectVolumes(vols, args)
		if len(vols) == 0 {
			return fmt.Errorf("no matching volumes")
		}

		hadErrors := false
		for _, vol := range vols {
			docs, report, err := segmentVolume(vol, o)
			if err != nil {
				fmt.Fprintf(os.Stderr, "volume %s: %v\n", vol.Name, err)
				hadErrors = true
				continue
			}
			printReport(report)
			hadErrors = hadErrors || len(report.Errors) > 0

			dir := filepath.Join(outDir, vol.Name)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			for _, doc := range docs {
				if err := os.WriteFile(filepath.Join(dir, doc.TargetID+".txt"), []byte(doc.Text), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", doc.TargetID, err)
				}
				data, err := yaml.Marshal(doc.Annotations)
				if err != nil {
					return fmt.Errorf("marshaling annotations for %s: %w", doc.TargetID, err)
				}
				if err := os.WriteFile(filepath.Join(dir, doc.TargetID+".annotations.yaml"), data, 0o644); err != nil {
					return fmt.Errorf("writing annotations for %s: %w", doc.TargetID, err)
				}
			}
			fmt.Fprintf(os.Stderr, "volume %s: %d logical document(s)\n", vol.Name, len(docs))
		}

		if hadErrors {
			return fmt.Errorf("segmentation completed with errors")
		}
		return nil
	},
}

// loadOutline resolves the outline for a run: an explicit file wins, then a
// fetch by work id, then no outline at all. A failed fetch degrades to
// no-outline mode so an outage does not block a sync; the degradation is
// loud.
func loadOutline(cmd *cobra.Command, path, work string) (*outline.Outline, error) {
	switch {
	case path != "":
		return outline.ReadFile(path)
	case work != "":
		o, err := outline.Fetch(cmd.Context(), syncConfig().Outline, work)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: outline fetch for %s failed (%v); segmenting without an outline\n", work, err)
			return &outline.Outline{Work: work}, nil
		}
		return o, nil
	}
	return &outline.Outline{}, nil
}

// segmentVolume converts one volume directory and segments it along the
// outline's locations for that volume.
func segmentVolume(vol standoff.Volume, o *outline.Outline) ([]types.LogicalDocument, types.VolumeReport, error) {
	converted, err := standoff.ConvertDir(vol.Dir, os.Stderr)
	if err != nil {
		return nil, types.VolumeReport{Volume: vol.Name}, err
	}
	docs, report := outline.SegmentVolume(vol.Name, vol.Number, converted, o.ForVolume(vol.Number), vol.Name)
	return docs, report, nil
}

func printReport(report types.VolumeReport) {
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", report.Volume, w)
	}
	for _, e := range report.Errors {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", report.Volume, e)
	}
}

func init() {
	segmentCmd.Flags().String("out", "segmented", "output directory")
	segmentCmd.Flags().String("outline", "", "outline file (overrides --work)")
	segmentCmd.Flags().String("work", "", "work id to fetch the outline for")

	rootCmd.AddCommand(segmentCmd)
}
