package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"MarketAdvisor/internal/advisor"
	"MarketAdvisor/internal/model"

	"github.com/shopspring/decimal"
)

// Price rounds v to cents, or "n/a" for undefined values.
func Price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// SignedPrice is Price with an explicit sign.
func SignedPrice(v float64) string {
	s := Price(v)
	if s != "n/a" && v >= 0 {
		return "+" + s
	}
	return s
}

func verdictIcon(v model.Verdict) string {
	switch v {
	case model.Buy:
		return "🟢"
	case model.Sell:
		return "🔴"
	default:
		return "⚪"
	}
}

func indicator(bar model.EnrichedBar, name model.Indicator) string {
	v, ok := bar.Value(name)
	if !ok {
		return "n/a"
	}
	return Price(v)
}

// FormatAnalysis formats an analysis into a Telegram message.
func FormatAnalysis(a *advisor.Analysis) string {
	var b strings.Builder
	rec := a.Recommendation
	bar := a.Latest

	fmt.Fprintf(&b, "📊 <b>%s</b> | %s\n\n", html.EscapeString(a.Symbol), bar.Time.Format("2006-01-02"))
	fmt.Fprintf(&b, "Price: %s", Price(a.Series.CurrentPrice))
	if a.Insights.HasChange {
		fmt.Fprintf(&b, " (%s, %+.2f%%)", SignedPrice(a.Insights.Change), a.Insights.ChangePct)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "SMA: %s / %s | RSI: %s\n",
		indicator(bar, model.SMAShort), indicator(bar, model.SMALong), indicator(bar, model.RSI))
	fmt.Fprintf(&b, "Support: %s | Resistance: %s\n\n",
		indicator(bar, model.Support), indicator(bar, model.Resistance))

	b.WriteString("📈 <b>Signals:</b>\n")
	for _, s := range rec.Signals {
		fmt.Fprintf(&b, "  %s %s: %s (%s)\n", verdictIcon(s.Verdict), s.Family, s.Verdict, html.EscapeString(s.Rationale))
	}
	fmt.Fprintf(&b, "\n%s <b>Overall: %s</b> (%d buy / %d sell)\n",
		verdictIcon(rec.Overall), rec.Overall, rec.BuyCount, rec.SellCount)

	if a.Insights.HasVolatility {
		fmt.Fprintf(&b, "Volatility: %.1f%% (%s risk)\n", a.Insights.Volatility, a.Insights.Risk)
	}
	return b.String()
}

// FormatBuyPlan formats an entry plan.
func FormatBuyPlan(symbol string, p model.BuyPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <b>Buy plan: %s</b>\n\n", html.EscapeString(symbol))
	fmt.Fprintf(&b, "Entry: %s\n", Price(p.EntryPrice))
	fmt.Fprintf(&b, "Stop-loss: %s\n", Price(p.StopLoss))
	fmt.Fprintf(&b, "Take-profit: %s\n", Price(p.TakeProfit))
	fmt.Fprintf(&b, "Risk/reward: %.2f\n", p.RiskReward)
	return b.String()
}

func adviceText(a model.SellAdvice) string {
	switch a {
	case model.SellForProfit:
		return "✅ Consider selling for profit"
	case model.CutLosses:
		return "⚠️ Consider cutting losses"
	default:
		return "⏸ Hold position"
	}
}

// FormatSellPlan formats an exit plan.
func FormatSellPlan(symbol string, p model.SellPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💸 <b>Sell plan: %s</b>\n\n", html.EscapeString(symbol))
	fmt.Fprintf(&b, "Sell price: %s (market %s)\n", Price(p.SellPrice), Price(p.ReferencePrice))
	fmt.Fprintf(&b, "Basis: %s\n", Price(p.BasisPrice))
	fmt.Fprintf(&b, "P/L: %s (%+.2f%%)\n\n", SignedPrice(p.ProfitLoss), p.ProfitPercentage)
	b.WriteString(adviceText(p.Advice))
	b.WriteString("\n")
	return b.String()
}

// FormatHoldings lists the holding book.
func FormatHoldings(list []model.Holding) string {
	if len(list) == 0 {
		return "📦 No holdings recorded. Use /hold SYMBOL BASIS [QTY]."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Holdings</b>\n\n")
	for _, h := range list {
		fmt.Fprintf(&b, "%s: basis %s", html.EscapeString(h.Symbol), Price(h.BasisPrice))
		if h.Quantity > 0 {
			fmt.Fprintf(&b, " × %s", decimal.NewFromFloat(h.Quantity).String())
		}
		b.WriteString("\n")
	}
	return b.String()
}
