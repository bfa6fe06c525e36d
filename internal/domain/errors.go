package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthFailure is returned for any credential mismatch. It does not say
	// which part of the credentials was wrong.
	ErrAuthFailure = errors.New("invalid credentials")
	// ErrBeneficiaryNotFound indicates no beneficiary with the ration card is assigned to the shop.
	ErrBeneficiaryNotFound = errors.New("beneficiary not found or not assigned to this shop")
	// ErrInsufficientStock matches any *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidInput indicates a rejected argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates an unknown entity id.
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is returned by write methods of a read-only transaction.
	ErrReadOnly = errors.New("read-only transaction")
)

// Shortfall describes one item that cannot be covered by the current stock.
type Shortfall struct {
	Item      Item    `json:"item"`
	Requested float64 `json:"requested"`
	Available float64 `json:"available"`
}

// Missing is the amount by which the request exceeds stock.
func (s Shortfall) Missing() float64 {
	return s.Requested - s.Available
}

// InsufficientStockError reports every item a stock change could not cover.
type InsufficientStockError struct {
	ShopID     int64
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s short by %g %s", s.Item, s.Missing(), s.Item.Unit()))
	}
	return fmt.Sprintf("insufficient stock at shop %d: %s", e.ShopID, strings.Join(parts, ", "))
}

// Is lets errors.Is(err, ErrInsufficientStock) match.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
