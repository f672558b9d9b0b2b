package model

// Verdict is the discrete outcome of a rule or of the aggregate vote.
type Verdict string

const (
	Buy     Verdict = "BUY"
	Sell    Verdict = "SELL"
	Neutral Verdict = "NEUTRAL"
)

// Family identifies the indicator family a signal was derived from.
type Family string

const (
	FamilyMovingAverage Family = "Moving Average"
	FamilyRSI           Family = "RSI"
	FamilyMACD          Family = "MACD"
	FamilyBollinger     Family = "Bollinger Bands"
)

// Signal is the verdict of a single indicator family.
type Signal struct {
	Family    Family  `json:"family"`
	Verdict   Verdict `json:"verdict"`
	Rationale string  `json:"rationale"`
}

// Recommendation is the output of the signal generator.
type Recommendation struct {
	Signals   []Signal `json:"signals"`
	Overall   Verdict  `json:"overall"`
	BuyCount  int      `json:"buy_count"`
	SellCount int      `json:"sell_count"`
}
