package domain

import (
	"fmt"
	"math"
	"strings"
)

// Item is a rationed commodity.
type Item string

// Rationed items, in display order.
const (
	Wheat    Item = "Wheat"
	Rice     Item = "Rice"
	Sugar    Item = "Sugar"
	Kerosene Item = "Kerosene"
)

// Units of measure for rationed items.
const (
	UnitKg     = "kg"
	UnitLiters = "liters"
)

// Items lists every rationed item in display order.
var Items = []Item{Wheat, Rice, Sugar, Kerosene}

// Unit returns the unit an item is measured in.
func (i Item) Unit() string {
	if i == Kerosene {
		return UnitLiters
	}
	return UnitKg
}

// ParseItem maps a case-insensitive item name to an Item.
func ParseItem(s string) (Item, error) {
	for _, it := range Items {
		if strings.EqualFold(s, string(it)) {
			return it, nil
		}
	}
	return "", fmt.Errorf("%w: unknown item %q", ErrInvalidInput, s)
}

// Quantities holds one amount per item. It is used for stock levels, signed
// stock deltas, distribution requests and entitlements.
type Quantities struct {
	Wheat    float64 `json:"wheat" yaml:"wheat"`
	Rice     float64 `json:"rice" yaml:"rice"`
	Sugar    float64 `json:"sugar" yaml:"sugar"`
	Kerosene float64 `json:"kerosene" yaml:"kerosene"`
}

// Get returns the amount for item.
func (q Quantities) Get(item Item) float64 {
	switch item {
	case Wheat:
		return q.Wheat
	case Rice:
		return q.Rice
	case Sugar:
		return q.Sugar
	case Kerosene:
		return q.Kerosene
	}
	return 0
}

// With returns a copy of q with item set to v.
func (q Quantities) With(item Item, v float64) Quantities {
	switch item {
	case Wheat:
		q.Wheat = v
	case Rice:
		q.Rice = v
	case Sugar:
		q.Sugar = v
	case Kerosene:
		q.Kerosene = v
	}
	return q
}

// Add returns the item-wise sum of q and d.
func (q Quantities) Add(d Quantities) Quantities {
	return Quantities{
		Wheat:    q.Wheat + d.Wheat,
		Rice:     q.Rice + d.Rice,
		Sugar:    q.Sugar + d.Sugar,
		Kerosene: q.Kerosene + d.Kerosene,
	}
}

// Sub returns the item-wise difference q - d.
func (q Quantities) Sub(d Quantities) Quantities {
	return q.Add(d.Negate())
}

// Negate flips the sign of every amount.
func (q Quantities) Negate() Quantities {
	return Quantities{Wheat: -q.Wheat, Rice: -q.Rice, Sugar: -q.Sugar, Kerosene: -q.Kerosene}
}

// Scale multiplies every amount by f.
func (q Quantities) Scale(f float64) Quantities {
	return Quantities{Wheat: q.Wheat * f, Rice: q.Rice * f, Sugar: q.Sugar * f, Kerosene: q.Kerosene * f}
}

// IsZero reports whether every amount is zero.
func (q Quantities) IsZero() bool {
	return q == Quantities{}
}

// Negatives returns the items whose amount is below zero.
func (q Quantities) Negatives() []Item {
	var out []Item
	for _, it := range Items {
		if q.Get(it) < 0 {
			out = append(out, it)
		}
	}
	return out
}

// NonFinite returns the items whose amount is NaN or infinite.
func (q Quantities) NonFinite() []Item {
	var out []Item
	for _, it := range Items {
		if v := q.Get(it); math.IsNaN(v) || math.IsInf(v, 0) {
			out = append(out, it)
		}
	}
	return out
}

// CheckAmounts rejects NaN, infinite and negative amounts with ErrInvalidInput.
func (q Quantities) CheckAmounts() error {
	if bad := q.NonFinite(); len(bad) > 0 {
		return fmt.Errorf("%w: %s quantity must be a finite number", ErrInvalidInput, bad[0])
	}
	if neg := q.Negatives(); len(neg) > 0 {
		return fmt.Errorf("%w: %s quantity cannot be negative", ErrInvalidInput, neg[0])
	}
	return nil
}
