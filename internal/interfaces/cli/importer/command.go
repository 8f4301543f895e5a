package importer

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tvmanager/internal/infrastructure/csvio"
	"tvmanager/internal/interfaces/cli/cliutil"
	apperrors "tvmanager/internal/shared/errors"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import clients from a file",
	}
	cmd.AddCommand(newCSVCommand())
	return cmd
}

func newCSVCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Replace all clients with the contents of a CSV backup",
		Long: `Read a CSV file in the export format and replace the whole client list
with it. Each imported client starts with a single payment worth its paid
total. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			result, err := csvio.Import(in, app.Clients.Now())
			if err != nil {
				return apperrors.Wrap(apperrors.ErrorTypeValidation, "failed to read CSV", err)
			}

			errOut := cmd.ErrOrStderr()
			for _, skipped := range result.Skipped {
				fmt.Fprintf(errOut, "skipped %v\n", skipped)
			}

			current := len(app.Clients.Snapshot(cmd.Context()))
			question := fmt.Sprintf("Replace %d existing clients with %d imported clients?", current, len(result.Clients))
			// stdin already holds the CSV, so it cannot answer the prompt
			if args[0] == "-" && !yes {
				return apperrors.NewValidationError("confirmation required", "pass --yes when importing from stdin")
			}
			if err := cliutil.ConfirmDestructive(cmd.InOrStdin(), cmd.OutOrStdout(), yes, question); err != nil {
				return err
			}

			if err := app.Clients.ReplaceAll(cmd.Context(), result.Clients); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d clients (%d rows skipped)\n", len(result.Clients), len(result.Skipped))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
