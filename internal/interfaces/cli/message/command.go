package message

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tvmanager/internal/domain/message"
	"tvmanager/internal/interfaces/cli/cliutil"
	apperrors "tvmanager/internal/shared/errors"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Compose reminder messages",
	}
	cmd.AddCommand(newRenderCommand())
	return cmd
}

func newRenderCommand() *cobra.Command {
	var (
		mark     bool
		linkOnly bool
	)
	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render the reminder for a client and its WhatsApp link",
		Long: `Render the message template matching the client's status. Clients
that are still active get the upcoming-expiration template, overdue clients
get the expired one. With --mark the client is recorded as contacted.`,
		Args: cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			c, err := app.Clients.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			settings := app.Settings.Load(cmd.Context())
			text, err := message.Compose(settings, c, app.Clients.Now())
			if errors.Is(err, message.ErrNoTemplateForStatus) {
				return apperrors.NewValidationError("client is deactivated, no reminder to send", c.ID())
			}
			if err != nil {
				return err
			}

			link, err := app.Links.Link(c.WhatsAppNumber(), text)
			if err != nil {
				return apperrors.NewValidationError("client has no usable WhatsApp number", c.ID())
			}

			out := cmd.OutOrStdout()
			if !linkOnly {
				fmt.Fprintln(out, text)
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, link)

			if mark {
				if _, err := app.Clients.MarkContacted(cmd.Context(), c.ID(), app.Clients.Now()); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&mark, "mark", false, "Record the client as contacted")
	cmd.Flags().BoolVar(&linkOnly, "link", false, "Print only the WhatsApp link")
	return cmd
}
