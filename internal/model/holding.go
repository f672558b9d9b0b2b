package model

import "time"

// Holding is a position the user owns, used as the basis for sell plans.
type Holding struct {
	Symbol     string    `json:"symbol"`
	BasisPrice float64   `json:"basis_price"`
	Quantity   float64   `json:"quantity"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// HoldingsState is the persisted form of the holdings book.
type HoldingsState struct {
	Holdings  map[string]Holding `json:"holdings"`
	UpdatedAt time.Time          `json:"updated_at"`
}
