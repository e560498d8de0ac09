package main

import (
	"fmt"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/spf13/cobra"
)

func getImportLocalCmd() *cobra.Command {
	var (
		path          string
		pattern       string
		withMetadata  bool
		metadataDir   string
		moveProcessed bool
		processedDir  string
		dryRun        bool
		queue         bool
		delay         time.Duration
		priority      int
		owner         string
	)

	cmd := &cobra.Command{
		Use:   "import-local",
		Short: "Import video files from a local directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			n := needStore
			if queue && !dryRun {
				n |= needQueue
			}
			rt, err := bootstrap(ctx, n)
			if err != nil {
				return err
			}
			defer rt.Close()

			ownerID, err := rt.ownerID(owner)
			if err != nil {
				return err
			}

			opts := domain.LocalImportOptions{
				Dir:           firstNonEmpty(path, rt.cfg.SourceDir),
				Pattern:       firstNonEmpty(pattern, rt.cfg.Pattern),
				MoveProcessed: moveProcessed,
				ProcessedDir:  firstNonEmpty(processedDir, rt.cfg.ProcessedDir),
				WithMetadata:  withMetadata,
			}
			if withMetadata {
				opts.MetadataDir = firstNonEmpty(metadataDir, rt.cfg.MetadataDir)
			}

			sources, err := rt.importer.DiscoverLocal(ctx, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "found %d files in %s\n", len(sources), opts.Dir)

			if dryRun {
				plan, err := rt.importer.PlanLocal(ctx, sources)
				if err != nil {
					return err
				}
				printPlan(out, plan)
				return nil
			}

			if queue {
				queued, skipped, err := rt.importer.DispatchLocal(ctx, ownerID, sources, opts, delay, priority)
				fmt.Fprintf(out, "queued: %d, skipped: %d\n", queued, skipped)
				return err
			}

			report, err := rt.importer.ImportLocal(ctx, ownerID, sources, opts)
			if report != nil {
				printReport(out, report)
			}
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d imports failed", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "directory to scan (defaults to IMPORT_SOURCE_DIR)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern (defaults to IMPORT_PATTERN)")
	cmd.Flags().BoolVar(&withMetadata, "with-metadata", false, "read JSON sidecars for titles and ids")
	cmd.Flags().StringVar(&metadataDir, "metadata-dir", "", "sidecar directory (defaults to IMPORT_METADATA_DIR)")
	cmd.Flags().BoolVar(&moveProcessed, "move-processed", false, "move imported files out of the source directory")
	cmd.Flags().StringVar(&processedDir, "processed-dir", "", "where imported files go (defaults to IMPORT_PROCESSED_DIR)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be imported without uploading")
	cmd.Flags().BoolVar(&queue, "queue", false, "publish one task per file instead of importing in-process")
	cmd.Flags().DurationVar(&delay, "delay", 0, "stagger between queued tasks")
	cmd.Flags().IntVar(&priority, "priority", 0, "priority carried by queued tasks")
	cmd.Flags().StringVar(&owner, "owner", "", "owner uuid (defaults to IMPORT_OWNER_ID)")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
