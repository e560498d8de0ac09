package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

func printPlan(w io.Writer, plan []domain.PlannedImport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSIZE\tQUALITY\tDURATION\tSTATUS")

	pending := 0
	for _, p := range plan {
		status := "pending"
		if p.AlreadyImported {
			status = "already imported"
		} else {
			pending++
		}
		duration := "-"
		if p.Source.Duration != nil {
			duration = strconv.Itoa(*p.Source.Duration) + "s"
		}
		id := p.Source.SourceID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", id, p.Source.Title, humanSize(p.Size), p.Quality, duration, status)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d to import, %d already imported\n", pending, len(plan)-pending)
}

func printReport(w io.Writer, report *domain.ImportReport) {
	fmt.Fprintf(w, "imported: %d, skipped: %d, failed: %d\n", report.Imported, report.Skipped, report.Failed)
	for _, res := range report.Results {
		if res.Outcome == domain.OutcomeFailed {
			fmt.Fprintf(w, "  failed %s: %v\n", res.Name, res.Err)
		}
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
