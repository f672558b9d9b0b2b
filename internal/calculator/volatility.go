package calculator

import "math"

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// RiskLevel buckets annualized volatility.
type RiskLevel string

const (
	RiskHigh     RiskLevel = "HIGH"
	RiskModerate RiskLevel = "MODERATE"
	RiskLow      RiskLevel = "LOW"
)

// AnnualizedVolatility returns the sample standard deviation of bar-to-bar
// percentage changes, scaled by sqrt(252), in percent. It needs at least
// three closes.
func AnnualizedVolatility(closes []float64) (float64, bool) {
	if len(closes) < 3 {
		return 0, false
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0, false
	}
	sd, ok := Last(SampleStdDev(returns, len(returns)))
	if !ok {
		return 0, false
	}
	return sd * math.Sqrt(TradingDaysPerYear) * 100, true
}

// ClassifyRisk maps annualized volatility (percent) to a risk level.
func ClassifyRisk(volatility float64) RiskLevel {
	switch {
	case volatility > 30:
		return RiskHigh
	case volatility > 20:
		return RiskModerate
	default:
		return RiskLow
	}
}

// DailyChange returns the absolute and percentage change of the last close
// against the one before it.
func DailyChange(closes []float64) (change, pct float64, ok bool) {
	n := len(closes)
	if n < 2 || closes[n-2] == 0 {
		return 0, 0, false
	}
	change = closes[n-1] - closes[n-2]
	return change, change / closes[n-2] * 100, true
}
