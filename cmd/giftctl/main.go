// Command giftctl runs migrations, bulk imports and household merges
// against the configured database without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gift-tracker-go/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewFromEnvWriter(os.Stderr)
	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "giftctl",
		Short:         "Operate the gift tracker database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newMigrateCmd(log),
		newImportCmd(log),
		newMergeCmd(log),
	)
	return cmd
}
