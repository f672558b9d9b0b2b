package cli

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/notifier"
	"MarketAdvisor/internal/recorder"

	"github.com/spf13/cobra"
)

var stripTags = strings.NewReplacer("<b>", "", "</b>", "")

// plain renders a Telegram HTML message for a terminal.
func plain(s string) string {
	return html.UnescapeString(stripTags.Replace(s))
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		action string
		basis  float64
	)

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Analyze a symbol and optionally compute a buy or sell plan",
		Long: `Analyze fetches the symbol's history, evaluates the latest bar and prints
the per-indicator signals and overall verdict.

With --action buy it adds an entry plan; with --action sell it adds an exit
plan for a position bought at --basis, or at the basis recorded in the
holdings book.

Example:
  advisor analyze AAPL --action sell --basis 150`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act := model.Action(strings.ToUpper(action))
			if action != "" && act != model.ActionBuy && act != model.ActionSell {
				return fmt.Errorf("--action must be buy or sell, got %q", action)
			}

			app, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			an, err := app.Advisor.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := app.Recorder.RecordAnalysis(recorder.NewAnalysisRecord(
				an.Symbol, string(app.Advisor.Strategy()), an.Latest, an.Recommendation))
			if err != nil {
				return fmt.Errorf("record analysis: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, plain(notifier.FormatAnalysis(an)))

			switch act {
			case model.ActionBuy:
				plan, err := app.Advisor.PlanBuy(an)
				if err != nil {
					return err
				}
				if err := app.Recorder.RecordPlan(recorder.BuyPlanRecord(id, an.Symbol, plan)); err != nil {
					return fmt.Errorf("record plan: %w", err)
				}
				printSection(out, notifier.FormatBuyPlan(an.Symbol, plan))

			case model.ActionSell:
				b := app.Book.Basis(an.Symbol)
				if cmd.Flags().Changed("basis") {
					b = &basis
				}
				plan, err := app.Advisor.PlanSell(an, b)
				if errors.Is(err, model.ErrMissingBasis) {
					return fmt.Errorf("%w: pass --basis or record the position with the bot's /hold command", err)
				}
				if err != nil {
					return err
				}
				if err := app.Recorder.RecordPlan(recorder.SellPlanRecord(id, an.Symbol, plan)); err != nil {
					return fmt.Errorf("record plan: %w", err)
				}
				printSection(out, notifier.FormatSellPlan(an.Symbol, plan))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&action, "action", "a", "", "price plan to compute (buy, sell)")
	cmd.Flags().Float64VarP(&basis, "basis", "b", 0, "basis price of the held position (sell)")
	return cmd
}

func printSection(w io.Writer, s string) {
	fmt.Fprintln(w)
	fmt.Fprint(w, plain(s))
}
