// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buda-base/etext-sync/internal/catalog"
	"github.com/buda-base/etext-sync/internal/chunker"
	"github.com/buda-base/etext-sync/internal/indexdoc"
	"github.com/buda-base/etext-sync/internal/standoff"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the full pipeline and upload to the search index",
	Long: `Sync converts every volume of the archive, segments it along the outline,
replaces the instance's previous documents in the search index with the new
segmentation, and records the run in the local catalog.

Problems with single documents or volumes do not abort the run; they are
reported and the run finishes as partial.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := syncConfig()
		instance, _ := cmd.Flags().GetString("instance")
		if instance == "" {
			return fmt.Errorf("--instance is required")
		}
		outlinePath, _ := cmd.Flags().GetString("outline")
		work, _ := cmd.Flags().GetString("work")
		rootInstance, _ := cmd.Flags().GetString("root-instance")
		workInstance, _ := cmd.Flags().GetString("work-instance")
		quality, _ := cmd.Flags().GetFloat64("quality")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		o, err := loadOutline(cmd, outlinePath, work)
		if err != nil {
			return err
		}

		vols, err := standoff.Volumes(cfg.Conversion.ArchiveDir)
		if err != nil {
			return err
		}

		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := store.BeginRun(instance)
		if err != nil {
			return err
		}

		if !dryRun {
			if err := indexdoc.DeleteInstance(cmd.Context(), cfg.Index, instance); err != nil {
				store.FinishRun(runID, "failed")
				return err
			}
		}

		partial := false
		indexed := 0
		for _, vol := range vols {
			docs, report, err := segmentVolume(vol, o)
			if err != nil {
				fmt.Fprintf(os.Stderr, "volume %s: %v\n", vol.Name, err)
				partial = true
				continue
			}
			printReport(report)
			partial = partial || len(report.Errors) > 0

			if err := store.RecordVolume(runID, vol.Number, docs, report); err != nil {
				fmt.Fprintf(os.Stderr, "volume %s: %v\n", vol.Name, err)
				partial = true
			}

			if dryRun {
				continue
			}
			meta := indexdoc.Meta{
				Instance:     instance,
				RootInstance: rootInstance,
				WorkInstance: workInstance,
				Volume:       vol.Name,
				VolumeNumber: vol.Number,
				Quality:      quality,
			}
			built := indexdoc.BuildVolume(docs, meta, chunker.Easy{}, cfg.Chunks.MaxSize)
			if err := indexdoc.BulkUpload(cmd.Context(), cfg.Index, built, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "volume %s: %v\n", vol.Name, err)
				partial = true
				continue
			}
			indexed += len(built)
		}

		status := "ok"
		if partial {
			status = "partial"
		}
		if err := store.FinishRun(runID, status); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "sync %s: %d volume(s), %d document(s) indexed, status %s\n", instance, len(vols), indexed, status)
		if partial {
			return fmt.Errorf("sync completed with errors")
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().String("instance", "", "etext instance id (required)")
	syncCmd.Flags().String("outline", "", "outline file (overrides --work)")
	syncCmd.Flags().String("work", "", "work id to fetch the outline for")
	syncCmd.Flags().String("root-instance", "", "root instance the etext reproduces")
	syncCmd.Flags().String("work-instance", "", "instance the etext reproduces")
	syncCmd.Flags().Float64("quality", 0, "transcription quality, 0 when unknown")
	syncCmd.Flags().Bool("dry-run", false, "convert and segment but skip the index upload")

	rootCmd.AddCommand(syncCmd)
}
