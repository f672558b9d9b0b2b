package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/notifier"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "List recorded analyses for a symbol, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.Recorder.RecentAnalyses(args[0], limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "no analyses recorded for %s\n", args[0])
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RECORDED\tBAR\tSTRATEGY\tCLOSE\tRSI\tVERDICT\tBUY/SELL")
			for _, r := range records {
				rsi := "n/a"
				if v, ok := r.Values[model.RSI]; ok {
					rsi = fmt.Sprintf("%.1f", v)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\n",
					r.CreatedAt.Local().Format(time.DateTime),
					r.BarTime.Format(time.DateOnly),
					r.Strategy,
					notifier.Price(r.Close),
					rsi,
					r.Verdict,
					r.BuyCount, r.SellCount,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of analyses to show")
	return cmd
}
