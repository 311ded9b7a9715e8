package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/coffeespec"
)

var hundred = decimal.NewFromInt(100)

var ErrNegativeAmount = errors.New("amount must not be negative")

// Pricer decides what a drink costs. Swapping the Pricer is the only change
// needed to introduce a new pricing policy.
type Pricer interface {
	Price(spec coffeespec.Spec) decimal.Decimal
}

// FlatPricer charges the same amount for every drink.
type FlatPricer struct {
	Amount decimal.Decimal
}

func NewFlatPricer(amount decimal.Decimal) FlatPricer {
	return FlatPricer{Amount: amount}
}

func (p FlatPricer) Price(coffeespec.Spec) decimal.Decimal {
	return p.Amount
}

// CafePricer charges the cafe's listed price for the cup size plus any
// modifiers the drink asks for. Sizes the cafe has not priced fall back. A
// drink never costs less than nothing.
type CafePricer struct {
	Prices    []Price
	Modifiers []PriceModifier
	Fallback  Pricer
}

func NewCafePricer(cafe Cafe, fallback Pricer) CafePricer {
	return CafePricer{
		Prices:    cafe.Prices,
		Modifiers: cafe.Modifiers,
		Fallback:  fallback,
	}
}

func (p CafePricer) Price(spec coffeespec.Spec) decimal.Decimal {
	base, ok := p.sizePrice(spec.Size)
	if !ok {
		return p.Fallback.Price(spec)
	}

	for _, want := range spec.Modifiers() {
		for _, mod := range p.Modifiers {
			if strings.EqualFold(strings.TrimSpace(mod.ModType), want) {
				base = base.Add(mod.Amount)
				break
			}
		}
	}

	if base.IsNegative() {
		return decimal.Zero
	}

	return base
}

func (p CafePricer) sizePrice(size coffeespec.Size) (decimal.Decimal, bool) {
	for _, price := range p.Prices {
		if price.Size == size {
			return price.Amount, true
		}
	}
	return decimal.Zero, false
}

// ToCents rounds a dollar amount to whole cents.
func ToCents(amount decimal.Decimal) int {
	return int(amount.Mul(hundred).Round(0).IntPart())
}

func FromCents(cents int) decimal.Decimal {
	return decimal.New(int64(cents), -2)
}
