package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

// Coffee is one person's order on a run. Price is in cents and fixed when
// the order is placed.
type Coffee struct {
	ID       uint
	PersonID uint
	Person   User
	RunID    uint
	Run      *Run
	Spec     coffeespec.Spec
	Price    int
	Modified time.Time
}

// NewCoffee parses the raw drink request and prices it.
func NewCoffee(personID, runID uint, request string, pricer Pricer, now time.Time) (Coffee, error) {
	spec, err := coffeespec.Parse(request)
	if err != nil {
		return Coffee{}, fmt.Errorf("coffeespec.Parse -> %w", err)
	}

	return Coffee{
		PersonID: personID,
		RunID:    runID,
		Spec:     spec,
		Price:    ToCents(pricer.Price(spec)),
		Modified: now,
	}, nil
}

func (c Coffee) GetPrice() decimal.Decimal {
	return FromCents(c.Price)
}

func (c Coffee) PrettyPrint() string {
	return c.Spec.String()
}

type CoffeeJSON struct {
	ID         uint            `json:"id"`
	Person     string          `json:"person"`
	CoffeeType string          `json:"coffeetype"`
	Size       coffeespec.Size `json:"size"`
	Sugar      int             `json:"sugar"`
	RunID      uint            `json:"runid"`
	Price      decimal.Decimal `json:"price"`
	Modified   string          `json:"modified"`
}

func (c Coffee) ToJSON(f *timefmt.Formatter) CoffeeJSON {
	return CoffeeJSON{
		ID:         c.ID,
		Person:     c.Person.Name,
		CoffeeType: c.Spec.Type,
		Size:       c.Spec.Size,
		Sugar:      c.Spec.Sugar,
		RunID:      c.RunID,
		Price:      c.GetPrice(),
		Modified:   f.JSON(c.Modified),
	}
}

func (c Coffee) ReadModified(f *timefmt.Formatter) string {
	return f.Readable(c.Modified)
}
