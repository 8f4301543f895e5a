package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tvmanager/internal/interfaces/cli/client"
	"tvmanager/internal/interfaces/cli/cliutil"
	"tvmanager/internal/interfaces/cli/config"
	"tvmanager/internal/interfaces/cli/dashboard"
	"tvmanager/internal/interfaces/cli/export"
	"tvmanager/internal/interfaces/cli/importer"
	"tvmanager/internal/interfaces/cli/message"
	"tvmanager/internal/interfaces/cli/migrate"
	"tvmanager/internal/interfaces/cli/settings"
	"tvmanager/internal/interfaces/cli/transactions"
	"tvmanager/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tvmanager",
		Short:         "TV Manager - subscription tracking for streaming resellers",
		Long:          `TV Manager keeps track of subscription clients: expirations, renewals, revenue and WhatsApp reminders.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cliutil.BindRootFlags(rootCmd)

	rootCmd.AddCommand(
		client.NewCommand(),
		dashboard.NewCommand(),
		transactions.NewCommand(),
		message.NewCommand(),
		settings.NewCommand(),
		export.NewCommand(),
		importer.NewCommand(),
		migrate.NewCommand(),
		config.NewCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if errors.Is(err, cliutil.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Aborted.")
		} else {
			fmt.Fprintln(os.Stderr, cliutil.Describe(err))
		}
		os.Exit(cliutil.ExitCode(err))
	}
}
