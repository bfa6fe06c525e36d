package app

import (
	"context"
	"fmt"
	"time"

	"rations/internal/domain"
)

// StockLedger owns every change to shop stock levels.
type StockLedger struct {
	store domain.Store
	options
}

// NewStockLedger creates a StockLedger backed by store.
func NewStockLedger(store domain.Store, opts ...Option) *StockLedger {
	return &StockLedger{store: store, options: newOptions(opts)}
}

// Get returns the current stock of a shop.
func (l *StockLedger) Get(ctx context.Context, shopID int64) (domain.Stock, error) {
	var s domain.Stock
	err := l.store.View(ctx, func(tx domain.Tx) error {
		var err error
		s, err = tx.StockForShop(shopID)
		return err
	})
	return s, err
}

// Adjust applies signed per-item deltas. If any level would drop below zero
// nothing changes and an *domain.InsufficientStockError lists every short item.
// Non-finite deltas, or sums that overflow, fail with domain.ErrInvalidInput.
func (l *StockLedger) Adjust(ctx context.Context, shopID int64, deltas domain.Quantities) (domain.Stock, error) {
	var out domain.Stock
	err := l.store.Update(ctx, func(tx domain.Tx) error {
		var err error
		out, err = l.AdjustTx(tx, shopID, deltas, l.now())
		return err
	})
	if err != nil {
		return domain.Stock{}, err
	}

	l.metrics.IncrementStockUpdate("adjust")
	l.logger.InfoContext(ctx, "stock adjusted", "shop_id", shopID,
		"wheat", deltas.Wheat, "rice", deltas.Rice, "sugar", deltas.Sugar, "kerosene", deltas.Kerosene)
	return out, nil
}

// AdjustTx is Adjust inside a transaction the caller already holds.
func (l *StockLedger) AdjustTx(tx domain.Tx, shopID int64, deltas domain.Quantities, at time.Time) (domain.Stock, error) {
	cur, err := tx.StockForShop(shopID)
	if err != nil {
		return domain.Stock{}, err
	}

	if bad := deltas.NonFinite(); len(bad) > 0 {
		return domain.Stock{}, fmt.Errorf("%w: %s delta must be a finite number", domain.ErrInvalidInput, bad[0])
	}

	have := cur.Levels()
	next := have.Add(deltas)
	if over := next.NonFinite(); len(over) > 0 {
		return domain.Stock{}, fmt.Errorf("%w: %s level out of range", domain.ErrInvalidInput, over[0])
	}
	if short := next.Negatives(); len(short) > 0 {
		e := &domain.InsufficientStockError{ShopID: shopID}
		for _, it := range short {
			e.Shortfalls = append(e.Shortfalls, domain.Shortfall{
				Item:      it,
				Requested: -deltas.Get(it),
				Available: have.Get(it),
			})
		}
		return domain.Stock{}, e
	}

	updated := cur.WithLevels(next, at)
	if err := tx.PutStock(updated); err != nil {
		return domain.Stock{}, err
	}
	return updated, nil
}

// SetLevels replaces a shop's stock with absolute levels.
func (l *StockLedger) SetLevels(ctx context.Context, shopID int64, levels domain.Quantities) (domain.Stock, error) {
	if err := levels.CheckAmounts(); err != nil {
		return domain.Stock{}, err
	}

	var out domain.Stock
	err := l.store.Update(ctx, func(tx domain.Tx) error {
		cur, err := tx.StockForShop(shopID)
		if err != nil {
			return err
		}
		out = cur.WithLevels(levels, l.now())
		return tx.PutStock(out)
	})
	if err != nil {
		return domain.Stock{}, err
	}

	l.metrics.IncrementStockUpdate("set")
	l.logger.InfoContext(ctx, "stock set", "shop_id", shopID,
		"wheat", levels.Wheat, "rice", levels.Rice, "sugar", levels.Sugar, "kerosene", levels.Kerosene)
	return out, nil
}
