// Package cart holds the shopper's cart on the client until checkout.
//
// The server never sees the cart. At checkout the client sends a snapshot of the ledger
// and clears it only after the order is accepted.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"resinstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger is an ordered set of cart lines keyed by product ID.
type Ledger struct {
	mu     sync.Mutex
	store  Store
	logger zerolog.Logger
}

// NewLedger creates a ledger persisted in store.
func NewLedger(store Store, logger zerolog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger.With().Str("component", "cart").Logger(),
	}
}

// Get returns the current lines. Unparseable stored data reads as an empty cart.
func (l *Ledger) Get(ctx context.Context) ([]model.CartLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Add puts line in the cart, or increases the quantity when the product is already there.
// The stored price and name are those of the first add.
func (l *Ledger) Add(ctx context.Context, line model.CartLine) ([]model.CartLine, error) {
	if line.ProductID == "" {
		return nil, model.NewValidationError("product id is required")
	}
	if line.Quantity <= 0 {
		return nil, model.NewValidationError("quantity must be at least 1")
	}

	return l.mutate(ctx, func(lines []model.CartLine) []model.CartLine {
		for i := range lines {
			if lines[i].ProductID == line.ProductID {
				lines[i].Quantity += line.Quantity
				return lines
			}
		}
		return append(lines, line)
	})
}

// Update sets the quantity of a line. A quantity of zero or less removes it.
// Updating a product that is not in the cart is a no-op.
func (l *Ledger) Update(ctx context.Context, productID string, quantity int) ([]model.CartLine, error) {
	if quantity <= 0 {
		return l.Remove(ctx, productID)
	}

	return l.mutate(ctx, func(lines []model.CartLine) []model.CartLine {
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity = quantity
			}
		}
		return lines
	})
}

// Remove deletes the line for productID.
func (l *Ledger) Remove(ctx context.Context, productID string) ([]model.CartLine, error) {
	return l.mutate(ctx, func(lines []model.CartLine) []model.CartLine {
		kept := lines[:0]
		for _, line := range lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		return kept
	})
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) error {
	_, err := l.mutate(ctx, func([]model.CartLine) []model.CartLine {
		return []model.CartLine{}
	})
	return err
}

// Total is the sum of price times quantity over all lines.
func (l *Ledger) Total(ctx context.Context) (model.Money, error) {
	lines, err := l.Get(ctx)
	if err != nil {
		return model.Money{}, err
	}
	return Subtotal(lines), nil
}

// ItemCount is the sum of quantities.
func (l *Ledger) ItemCount(ctx context.Context) (int, error) {
	lines, err := l.Get(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count, nil
}

// Subtotal sums line totals.
func Subtotal(lines []model.CartLine) model.Money {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.LineTotal().Decimal)
	}
	return model.MoneyFromDecimal(sum)
}

func (l *Ledger) mutate(ctx context.Context, fn func([]model.CartLine) []model.CartLine) ([]model.CartLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	lines = fn(lines)

	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := l.store.Save(ctx, data); err != nil {
		return nil, err
	}
	return lines, nil
}

func (l *Ledger) load(ctx context.Context) ([]model.CartLine, error) {
	data, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []model.CartLine{}, nil
	}

	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		l.logger.Warn().Err(err).Msg("stored cart is unreadable, starting empty")
		return []model.CartLine{}, nil
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return lines, nil
}
