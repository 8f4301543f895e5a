package dashboard

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tvmanager/internal/interfaces/cli/cliutil"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show client counts and revenue figures",
		Args:  cobra.NoArgs,
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
			stats := app.Clients.Stats(cmd.Context())
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, cliutil.Title("Clientes"))
			fmt.Fprint(out, cliutil.KeyValues([][2]string{
				{"Total", strconv.Itoa(stats.ClientCount)},
				{"Ativos", strconv.Itoa(stats.ActiveCount)},
				{"Mensagem enviada", strconv.Itoa(stats.MessageSentCount)},
				{"Vencidos", strconv.Itoa(stats.ExpiredCount)},
				{"Inativos", strconv.Itoa(stats.InactiveCount)},
			}))
			fmt.Fprintln(out)
			fmt.Fprintln(out, cliutil.Title("Receita"))
			fmt.Fprint(out, cliutil.KeyValues([][2]string{
				{"Previsao 30 dias", cliutil.Money(stats.RevenueForecast)},
				{"Ultimos 30 dias", cliutil.Money(stats.RevenueLast30Days)},
				{"Total recebido", cliutil.Money(stats.TotalRevenue)},
				{"Media por cliente", cliutil.Money(stats.AverageRevenue)},
			}))
			return nil
		}),
	}
}
