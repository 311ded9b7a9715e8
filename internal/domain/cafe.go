package domain

import (
	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/coffeespec"
)

type Cafe struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Prices    []Price         `json:"prices,omitempty"`
	Modifiers []PriceModifier `json:"modifiers,omitempty"`
}

// Price is what a cafe charges for one cup size. Nothing stops a cafe from
// listing the same size twice; lookups use the first match.
type Price struct {
	ID     uint            `json:"id"`
	CafeID uint            `json:"cafe_id"`
	Size   coffeespec.Size `json:"size"`
	Amount decimal.Decimal `json:"amount"`
	Cafe   *Cafe           `json:"-"`
}

func NewPrice(cafeID uint, size coffeespec.Size) Price {
	return Price{
		CafeID: cafeID,
		Size:   size,
		Amount: decimal.Zero,
	}
}

// PriceModifier is a surcharge for an extra such as "soy milk".
type PriceModifier struct {
	ID      uint            `json:"id"`
	CafeID  uint            `json:"cafe_id"`
	ModType string          `json:"modtype"`
	Amount  decimal.Decimal `json:"amount"`
}

func NewPriceModifier(cafeID uint, modType string) PriceModifier {
	return PriceModifier{
		CafeID:  cafeID,
		ModType: modType,
		Amount:  decimal.Zero,
	}
}
