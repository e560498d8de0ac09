package main

import (
	"fmt"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/spf13/cobra"
)

func getGenerateMetadataCmd() *cobra.Command {
	var (
		dir   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "generate-metadata",
		Short: "Write one JSON sidecar per Vimeo video",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := bootstrap(ctx, needSource)
			if err != nil {
				return err
			}
			defer rt.Close()

			sources, err := rt.importer.DiscoverRemote(ctx, limit)
			if err != nil {
				return err
			}

			target := firstNonEmpty(dir, rt.cfg.MetadataDir)
			written, skipped, err := rt.importer.GenerateMetadata(ctx, sources, target)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sidecars to %s, %d already present\n", written, target, skipped)
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "output", "", "sidecar directory (defaults to IMPORT_METADATA_DIR)")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many videos (0 = all)")

	return cmd
}

func getConvertFilenamesCmd() *cobra.Command {
	var (
		videoDir    string
		metadataDir string
		outputDir   string
		extensions  []string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "convert-filenames",
		Short: "Rename downloaded videos after the sidecar they match",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := bootstrap(ctx, 0)
			if err != nil {
				return err
			}
			defer rt.Close()

			exts := make([]string, 0, len(extensions))
			for _, e := range extensions {
				exts = append(exts, strings.TrimPrefix(strings.ToLower(e), "."))
			}

			report, err := rt.importer.ConvertFilenames(ctx, domain.ConvertOptions{
				VideoDir:    firstNonEmpty(videoDir, rt.cfg.SourceDir),
				MetadataDir: firstNonEmpty(metadataDir, rt.cfg.MetadataDir),
				OutputDir:   outputDir,
				Extensions:  exts,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range report.Results {
				switch {
				case r.Err != nil:
					fmt.Fprintf(out, "  failed %s: %v\n", r.From, r.Err)
				case r.Skipped:
					fmt.Fprintf(out, "  skipped %s: %s exists\n", r.From, r.To)
				case r.Matched:
					fmt.Fprintf(out, "  %s -> %s\n", r.From, r.To)
				}
			}
			verb := "renamed"
			if dryRun {
				verb = "would rename"
			}
			fmt.Fprintf(out, "%s: %d, unmatched: %d, skipped: %d, failed: %d\n",
				verb, report.Renamed, len(report.Unmatched), len(report.Skipped), len(report.Failed))
			for _, name := range report.Unmatched {
				fmt.Fprintf(out, "  no metadata for %s\n", name)
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d renames failed", len(report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&videoDir, "video-dir", "", "directory holding downloaded videos (defaults to IMPORT_SOURCE_DIR)")
	cmd.Flags().StringVar(&metadataDir, "metadata-dir", "", "sidecar directory (defaults to IMPORT_METADATA_DIR)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "move renamed files here instead of renaming in place")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "video extensions to consider (default mp4,mov,avi)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the renames without touching any file")

	return cmd
}
