package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "vidctl",
	Short:         "vidctl imports videos from Vimeo or a local directory into storage-manager.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(getImportVimeoCmd())
	rootCmd.AddCommand(getImportLocalCmd())
	rootCmd.AddCommand(getGenerateMetadataCmd())
	rootCmd.AddCommand(getConvertFilenamesCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getTokenCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
