// Package holdings keeps the user's positions and their basis prices.
package holdings

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"MarketAdvisor/internal/model"
)

// Book is the persisted map of symbol to holding, safe for concurrent use.
// An empty file path keeps the book in memory only.
type Book struct {
	mu       sync.Mutex
	state    *model.HoldingsState
	filePath string
	now      func() time.Time
}

// NewBook creates a Book, loading existing state from disk.
func NewBook(filePath string) (*Book, error) {
	state := &model.HoldingsState{Holdings: map[string]model.Holding{}}
	if filePath != "" {
		loaded, err := LoadState(filePath)
		if err != nil {
			return nil, fmt.Errorf("load holdings: %w", err)
		}
		state = loaded
	}
	return &Book{state: state, filePath: filePath, now: time.Now}, nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Add records a purchase. Buying more of a held symbol averages the basis
// price by quantity; with no quantity on either side the basis is replaced.
func (b *Book) Add(symbol string, basis, quantity float64) (model.Holding, error) {
	symbol = normalize(symbol)
	if symbol == "" {
		return model.Holding{}, fmt.Errorf("symbol is required")
	}
	if !(basis > 0) {
		return model.Holding{}, fmt.Errorf("%w: got %v", model.ErrInvalidBasis, basis)
	}
	if quantity < 0 {
		return model.Holding{}, fmt.Errorf("quantity must not be negative: got %v", quantity)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	h := model.Holding{Symbol: symbol, BasisPrice: basis, Quantity: quantity, AcquiredAt: b.now()}
	if prev, ok := b.state.Holdings[symbol]; ok {
		h.AcquiredAt = prev.AcquiredAt
		if total := prev.Quantity + quantity; prev.Quantity > 0 && quantity > 0 {
			h.BasisPrice = (prev.BasisPrice*prev.Quantity + basis*quantity) / total
			h.Quantity = total
		}
	}

	next := b.copyHoldings()
	next[symbol] = h
	if err := b.commit(next); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}

// Remove deletes a holding. It reports whether the symbol was held.
func (b *Book) Remove(symbol string) (bool, error) {
	symbol = normalize(symbol)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.state.Holdings[symbol]; !ok {
		return false, nil
	}
	next := b.copyHoldings()
	delete(next, symbol)
	if err := b.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the holding for symbol.
func (b *Book) Get(symbol string) (model.Holding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.state.Holdings[normalize(symbol)]
	return h, ok
}

// Basis returns the basis price for symbol, or nil when it is not held.
func (b *Book) Basis(symbol string) *float64 {
	h, ok := b.Get(symbol)
	if !ok {
		return nil
	}
	basis := h.BasisPrice
	return &basis
}

// List returns all holdings ordered by symbol.
func (b *Book) List() []model.Holding {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Holding, 0, len(b.state.Holdings))
	for _, h := range b.state.Holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (b *Book) copyHoldings() map[string]model.Holding {
	next := make(map[string]model.Holding, len(b.state.Holdings)+1)
	for k, v := range b.state.Holdings {
		next[k] = v
	}
	return next
}

// commit persists next and only then makes it the live state; a failed write
// leaves the book unchanged.
func (b *Book) commit(next map[string]model.Holding) error {
	state := &model.HoldingsState{Holdings: next, UpdatedAt: b.state.UpdatedAt}
	if b.filePath != "" {
		if err := SaveState(b.filePath, state); err != nil {
			return fmt.Errorf("save holdings: %w", err)
		}
	}
	b.state = state
	return nil
}
