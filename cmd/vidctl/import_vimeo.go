package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func getImportVimeoCmd() *cobra.Command {
	var (
		dryRun   bool
		limit    int
		resume   bool
		queue    bool
		delay    time.Duration
		priority int
		owner    string
	)

	cmd := &cobra.Command{
		Use:   "import-vimeo",
		Short: "Import every video of the authenticated Vimeo account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			n := needStore | needSource
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

			sources, err := rt.importer.DiscoverRemote(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "found %d videos\n", len(sources))

			if dryRun {
				plan, err := rt.importer.PlanRemote(ctx, sources)
				if err != nil {
					return err
				}
				printPlan(out, plan)
				return nil
			}

			if queue {
				queued, skipped, err := rt.importer.DispatchRemote(ctx, ownerID, sources, resume, delay, priority)
				fmt.Fprintf(out, "queued: %d, skipped: %d\n", queued, skipped)
				return err
			}

			report, err := rt.importer.ImportRemote(ctx, ownerID, sources, resume)
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

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be imported without transferring anything")
	cmd.Flags().IntVar(&limit, "limit", 0, "import at most this many videos (0 = all)")
	cmd.Flags().BoolVar(&resume, "resume", false, "resume partially downloaded files")
	cmd.Flags().BoolVar(&queue, "queue", false, "publish one task per video instead of importing in-process")
	cmd.Flags().DurationVar(&delay, "delay", 10*time.Second, "stagger between queued tasks")
	cmd.Flags().IntVar(&priority, "priority", 0, "priority carried by queued tasks")
	cmd.Flags().StringVar(&owner, "owner", "", "owner uuid (defaults to IMPORT_OWNER_ID)")

	return cmd
}
