package transactions

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tvmanager/internal/interfaces/cli/cliutil"
	"tvmanager/internal/shared/biztime"
	"tvmanager/internal/shared/utils"
)

func NewCommand() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List recorded payments, newest first",
		Args:  cobra.NoArgs,
		RunE: cliutil.RunWithApp(func(cmd *cobra.Command, _ []string, app *cliutil.App) error {
			all := app.Clients.Transactions(cmd.Context())
			p := utils.ValidatePagination(page, pageSize)
			txs := utils.Paginate(all, p)

			rows := make([][]string, 0, len(txs))
			for _, tx := range txs {
				rows = append(rows, []string{
					biztime.ToBizTimezone(tx.Renewal.CreatedAt()).Format("02/01/2006 15:04"),
					tx.ClientName,
					strconv.Itoa(tx.Renewal.DurationMonths()),
					tx.Renewal.EndDate().Format(biztime.DisplayDateLayout),
					cliutil.Money(tx.Renewal.Value()),
				})
			}
			cliutil.PrintTable(cmd.OutOrStdout(),
				[]string{"Data", "Cliente", "Meses", "Valido ate", "Valor"},
				rows, "No payments recorded.")
			if len(all) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d payments\n",
					p.Page, utils.TotalPages(len(all), p.PageSize), len(all))
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&page, "page", "p", utils.DefaultPage, "Page number")
	cmd.Flags().IntVarP(&pageSize, "page-size", "n", utils.DefaultPageSize, "Payments per page")
	return cmd
}
