package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pochta",
		Short:        "Russian Post Otpravka and tracking command line client",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newTariffCmd(),
		newBalanceCmd(),
		newCleanCmd(),
		newPostOfficeCmd(),
		newOrdersCmd(),
		newBatchesCmd(),
		newDocsCmd(),
		newSettingsCmd(),
		newTrackCmd(),
	)
	return root
}
