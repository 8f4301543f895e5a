package export

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tvmanager/internal/infrastructure/csvio"
	"tvmanager/internal/infrastructure/spreadsheet"
	"tvmanager/internal/interfaces/cli/cliutil"
)

var output string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export clients to a file",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "csv",
			Short: "Export clients as CSV",
			Args:  cobra.NoArgs,
			RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
				return writeOutput(cmd, func(w io.Writer) error {
					return csvio.Export(w, app.Clients.Snapshot(cmd.Context()))
				})
			}),
		},
		&cobra.Command{
			Use:   "xlsx",
			Short: "Export clients and payments as an Excel workbook",
			Args:  cobra.NoArgs,
			RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
				return writeOutput(cmd, func(w io.Writer) error {
					return spreadsheet.Export(w, app.Clients.Snapshot(cmd.Context()), app.Clients.Now())
				})
			}),
		},
	)

	return cmd
}

func writeOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	if output == "" || output == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
	return nil
}
