package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ncss/coffeerun/internal/coffeespec"
)

func TestFlatPricer_IgnoresSpec(t *testing.T) {
	p := NewFlatPricer(decimal.NewFromFloat(4.0))

	assert.True(t, p.Price(coffeespec.Spec{Type: "latte", Size: coffeespec.SizeLarge}).Equal(decimal.NewFromInt(4)))
	assert.True(t, p.Price(coffeespec.Spec{}).Equal(decimal.NewFromInt(4)))
}

func TestCafePricer(t *testing.T) {
	cafe := Cafe{
		Prices: []Price{
			{Size: coffeespec.SizeSmall, Amount: decimal.RequireFromString("3.50")},
			{Size: coffeespec.SizeLarge, Amount: decimal.RequireFromString("4.80")},
		},
		Modifiers: []PriceModifier{
			{ModType: "Soy Milk", Amount: decimal.RequireFromString("0.50")},
			{ModType: "extra shot", Amount: decimal.RequireFromString("0.40")},
		},
	}
	p := NewCafePricer(cafe, NewFlatPricer(decimal.NewFromInt(4)))

	small := coffeespec.Spec{Type: "latte", Size: coffeespec.SizeSmall}
	assert.Equal(t, "3.5", p.Price(small).String())

	large := coffeespec.Spec{Type: "latte", Size: coffeespec.SizeLarge, Milk: "soy", Strength: "strong"}
	assert.Equal(t, "5.7", p.Price(large).String())

	// No medium price listed.
	medium := coffeespec.Spec{Type: "latte", Size: coffeespec.SizeMedium, Milk: "soy"}
	assert.Equal(t, "4", p.Price(medium).String())
}

func TestCafePricer_NeverNegative(t *testing.T) {
	cafe := Cafe{
		Prices:    []Price{{Size: coffeespec.SizeMedium, Amount: decimal.RequireFromString("1.00")}},
		Modifiers: []PriceModifier{{ModType: "soy milk", Amount: decimal.RequireFromString("-2.50")}},
	}
	p := NewCafePricer(cafe, NewFlatPricer(decimal.NewFromInt(4)))

	got := p.Price(coffeespec.Spec{Type: "latte", Size: coffeespec.SizeMedium, Milk: "soy"})
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestCents(t *testing.T) {
	assert.Equal(t, 350, ToCents(decimal.RequireFromString("3.5")))
	assert.Equal(t, 401, ToCents(decimal.RequireFromString("4.005")))
	assert.Equal(t, 0, ToCents(decimal.Zero))
	assert.True(t, FromCents(1234).Equal(decimal.RequireFromString("12.34")))
}

func TestNewPrice_DefaultsToZero(t *testing.T) {
	p := NewPrice(4, coffeespec.SizeMedium)
	assert.True(t, p.Amount.IsZero())

	m := NewPriceModifier(4, "soy milk")
	assert.True(t, m.Amount.IsZero())
}
