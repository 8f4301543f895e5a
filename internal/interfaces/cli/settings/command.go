package settings

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tvmanager/internal/domain/message"
	"tvmanager/internal/domain/setting"
	"tvmanager/internal/interfaces/cli/cliutil"
	apperrors "tvmanager/internal/shared/errors"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage message templates",
	}
	cmd.AddCommand(
		newShowCommand(),
		newSetCommand(),
		newResetCommand(),
	)
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the message templates and the placeholders they accept",
		Args:  cobra.NoArgs,
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
			writeSettings(cmd.OutOrStdout(), app.Settings.Load(cmd.Context()))
			return nil
		}),
	}
}

func writeSettings(w io.Writer, s *setting.AppSettings) {
	fmt.Fprintln(w, cliutil.Title("upcoming"))
	fmt.Fprintln(w, s.Upcoming())
	fmt.Fprintln(w)
	fmt.Fprintln(w, cliutil.Title("expired"))
	fmt.Fprintln(w, s.Expired())
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(message.Placeholders()))
	for _, p := range message.Placeholders() {
		rows = append(rows, []string{p.Tag, p.Description})
	}
	cliutil.PrintTable(w, []string{"Tag", "Description"}, rows, "")
}

func newSetCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set <upcoming|expired> [text]",
		Short: "Replace a message template",
		Long:  `Replace a template with the given text, or with the contents of --file ("-" reads stdin).`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			kind, err := setting.ParseTemplateKind(args[0])
			if err != nil {
				return apperrors.NewValidationError("unknown template", args[0])
			}

			var text string
			switch {
			case file != "" && len(args) == 2:
				return apperrors.NewValidationError("pass the template as an argument or with --file, not both")
			case file == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read template file: %w", err)
				}
				text = string(data)
			case len(args) == 2:
				text = args[1]
			default:
				return apperrors.NewValidationError("template text is required")
			}

			if _, err := app.Settings.UpdateTemplate(cmd.Context(), kind, strings.TrimRight(text, "\n")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template %s updated\n", kind)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the template from a file")
	return cmd
}

func newResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default templates",
		Args:  cobra.NoArgs,
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
			if err := cliutil.ConfirmDestructive(cmd.InOrStdin(), cmd.OutOrStdout(), yes, "Discard the custom templates?"); err != nil {
				return err
			}
			s, err := app.Settings.Reset(cmd.Context())
			if err != nil {
				return err
			}
			writeSettings(cmd.OutOrStdout(), s)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
