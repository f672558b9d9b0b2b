package model

// Action selects which price plan is requested.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// BuyPlan is the suggested entry strategy.
type BuyPlan struct {
	EntryPrice float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	RiskReward float64 `json:"risk_reward_ratio"`
}

// SellAdvice is the caller-facing recommendation attached to a sell plan.
type SellAdvice string

const (
	SellForProfit SellAdvice = "SELL_FOR_PROFIT"
	CutLosses     SellAdvice = "CUT_LOSSES"
	Hold          SellAdvice = "HOLD"
)

// SellPlan is the suggested exit for a held position.
type SellPlan struct {
	SellPrice        float64    `json:"sell_price"`
	ProfitLoss       float64    `json:"profit_loss"`
	ProfitPercentage float64    `json:"profit_percentage"`
	ReferencePrice   float64    `json:"reference_price"`
	BasisPrice       float64    `json:"basis_price"`
	Advice           SellAdvice `json:"advice"`
}
