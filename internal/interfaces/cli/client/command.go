package client

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	clientApp "tvmanager/internal/application/client"
	"tvmanager/internal/domain/client"
	"tvmanager/internal/interfaces/cli/cliutil"
	"tvmanager/internal/shared/biztime"
)

type clientFlags struct {
	name     string
	whatsapp string
	user     string
	value    string
	months   int
	start    string
}

func (f *clientFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Client name")
	cmd.Flags().StringVar(&f.whatsapp, "whatsapp", "", "WhatsApp number")
	cmd.Flags().StringVar(&f.user, "user", "", "Panel username")
	cmd.Flags().StringVar(&f.value, "value", "", "Price per cycle, e.g. 35,90")
	cmd.Flags().IntVar(&f.months, "months", 1, "Cycle length in months")
	cmd.Flags().StringVar(&f.start, "start", "", "Cycle start date YYYY-MM-DD (default: today)")
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
		Long:  `Register, edit, renew and inspect subscription clients.`,
	}

	cmd.AddCommand(
		newAddCommand(),
		newEditCommand(),
		newListCommand(),
		newShowCommand(),
		newDeleteCommand(),
		newRenewCommand(),
		newContactCommand(),
		newToggleCommand(),
	)

	return cmd
}

func newAddCommand() *cobra.Command {
	var (
		f  clientFlags
		id string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new client",
		Args:  cobra.NoArgs,
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
			value, err := cliutil.ParseMoney(f.value)
			if err != nil {
				return err
			}
			start, err := cliutil.ParseDateFlag(f.start, app.Clients.Now())
			if err != nil {
				return err
			}

			c, err := app.Clients.Create(cmd.Context(), clientApp.CreateClientCommand{
				ID:                  id,
				Name:                f.name,
				WhatsAppNumber:      f.whatsapp,
				PanelUsername:       f.user,
				CycleValue:          value,
				CycleDurationMonths: f.months,
				StartDate:           start,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Client %s registered, expires %s\n",
				c.ID(), c.ExpirationDate().Format(biztime.DisplayDateLayout))
			return nil
		}),
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Client ID (generated when empty)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("whatsapp")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newEditCommand() *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a client's details",
		Long:  `Change the fields given as flags. The expiration date is derived again from the start date and cycle length.`,
		Args:  cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			current, err := app.Clients.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			update := clientApp.UpdateClientCommand{
				ID:                  current.ID(),
				Name:                current.Name(),
				WhatsAppNumber:      current.WhatsAppNumber(),
				PanelUsername:       current.PanelUsername(),
				CycleValue:          current.CycleValue(),
				CycleDurationMonths: current.CycleDurationMonths(),
				StartDate:           current.StartDate(),
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = f.name
			}
			if flags.Changed("whatsapp") {
				update.WhatsAppNumber = f.whatsapp
			}
			if flags.Changed("user") {
				update.PanelUsername = f.user
			}
			if flags.Changed("value") {
				if update.CycleValue, err = cliutil.ParseMoney(f.value); err != nil {
					return err
				}
			}
			if flags.Changed("months") {
				update.CycleDurationMonths = f.months
			}
			if flags.Changed("start") {
				if update.StartDate, err = cliutil.ParseDateFlag(f.start, app.Clients.Now()); err != nil {
					return err
				}
			}

			c, err := app.Clients.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Client %s updated, expires %s\n",
				c.ID(), c.ExpirationDate().Format(biztime.DisplayDateLayout))
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func newListCommand() *cobra.Command {
	var filter clientApp.ListFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients that need attention",
		Long: `List clients sorted by expiration date. Without flags only clients that
expire within three days or are already overdue are shown.`,
		Args: cobra.NoArgs,
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
			clients := app.Clients.List(cmd.Context(), filter)
			writeClientTable(cmd.OutOrStdout(), clients, app.Clients.Now())
			return nil
		}),
	}
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Match name, username or WhatsApp number")
	cmd.Flags().BoolVarP(&filter.All, "all", "a", false, "Show every client")
	return cmd
}

func writeClientTable(w io.Writer, clients []*client.Client, now time.Time) {
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			c.ID(),
			c.Name(),
			c.PanelUsername(),
			c.ExpirationDate().Format(biztime.DisplayDateLayout),
			cliutil.Days(c.DaysUntilExpiration(now)),
			cliutil.Status(c.Status(now)),
			cliutil.Money(c.CycleValue()),
		})
	}
	cliutil.PrintTable(w,
		[]string{"ID", "Nome", "Usuario", "Vencimento", "Prazo", "Status", "Valor"},
		rows, "No clients found.")
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a client and its payment history",
		Args:  cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			c, err := app.Clients.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			now := app.Clients.Now()
			out := cmd.OutOrStdout()

			lastMessage := "-"
			if ts := c.LastMessageDate(); ts != nil {
				lastMessage = biztime.ToBizTimezone(*ts).Format("02/01/2006 15:04")
			}

			fmt.Fprintln(out, cliutil.Title(c.Name()))
			fmt.Fprint(out, cliutil.KeyValues([][2]string{
				{"ID", c.ID()},
				{"Usuario", c.PanelUsername()},
				{"WhatsApp", c.WhatsAppNumber()},
				{"Status", cliutil.Status(c.Status(now))},
				{"Ciclo", fmt.Sprintf("%s / %d mes(es)", cliutil.Money(c.CycleValue()), c.CycleDurationMonths())},
				{"Inicio", c.StartDate().Format(biztime.DisplayDateLayout)},
				{"Vencimento", c.ExpirationDate().Format(biztime.DisplayDateLayout) + " (" + cliutil.Days(c.DaysUntilExpiration(now)) + ")"},
				{"Total pago", cliutil.Money(c.TotalPaidValue())},
				{"Ultima mensagem", lastMessage},
			}))
			fmt.Fprintln(out)

			history := c.RenewalHistory()
			rows := make([][]string, 0, len(history))
			for i := len(history) - 1; i >= 0; i-- {
				r := history[i]
				rows = append(rows, []string{
					biztime.DateOf(r.CreatedAt()).Format(biztime.DisplayDateLayout),
					r.StartDate().Format(biztime.DisplayDateLayout),
					r.EndDate().Format(biztime.DisplayDateLayout),
					strconv.Itoa(r.DurationMonths()),
					cliutil.Money(r.Value()),
				})
			}
			cliutil.PrintTable(out, []string{"Pago em", "Inicio", "Fim", "Meses", "Valor"}, rows, "No payments recorded.")
			return nil
		}),
	}
}

func newDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			c, err := app.Clients.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			question := fmt.Sprintf("Delete client %s (%s) and its payment history?", c.Name(), c.ID())
			if err := cliutil.ConfirmDestructive(cmd.InOrStdin(), cmd.OutOrStdout(), yes, question); err != nil {
				return err
			}
			if err := app.Clients.Delete(cmd.Context(), c.ID()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Client %s deleted\n", c.ID())
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newRenewCommand() *cobra.Command {
	var (
		months int
		value  string
	)
	cmd := &cobra.Command{
		Use:   "renew <id>",
		Short: "Record a payment and extend the subscription",
		Long: `Record a payment. Active clients are extended from their current expiration
date; expired clients restart today. Without flags the client's cycle length and
price are used.`,
		Args: cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			renew := clientApp.RenewClientCommand{ID: args[0], DurationMonths: months}
			if value != "" {
				v, err := cliutil.ParseMoney(value)
				if err != nil {
					return err
				}
				renew.Value = &v
			}

			c, r, err := app.Clients.Renew(cmd.Context(), renew)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renewed %s: %s paid, valid until %s (total paid %s)\n",
				c.Name(), cliutil.Money(r.Value()),
				r.EndDate().Format(biztime.DisplayDateLayout),
				cliutil.Money(c.TotalPaidValue()))
			return nil
		}),
	}
	cmd.Flags().IntVar(&months, "months", 0, "Months to add (default: client's cycle length)")
	cmd.Flags().StringVar(&value, "value", "", "Amount paid (default: client's cycle price)")
	return cmd
}

func newContactCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "contact <id>",
		Short: "Record that a reminder was sent",
		Args:  cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			var ts time.Time
			if at != "" {
				parsed, err := biztime.ParseTimestamp(at)
				if err != nil {
					return err
				}
				ts = parsed
			}
			c, err := app.Clients.MarkContacted(cmd.Context(), args[0], ts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s marked as contacted, status %s\n",
				c.Name(), cliutil.Status(c.Status(app.Clients.Now())))
			return nil
		}),
	}
	cmd.Flags().StringVar(&at, "at", "", "Time the message was sent, RFC3339 (default: now)")
	return cmd
}

func newToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Deactivate or reactivate a client",
		Args:  cobra.ExactArgs(1),
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, args []string, app *cliutil.App) error {
			c, err := app.Clients.ToggleActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "reactivated"
			if c.IsManuallyDeactivated() {
				state = "deactivated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.Name(), state)
			return nil
		}),
	}
}
