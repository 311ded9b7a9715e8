package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

func TestNewCoffee(t *testing.T) {
	now := time.Date(2024, 3, 4, 4, 30, 0, 0, time.UTC)

	c, err := NewCoffee(3, 9, "large skim latte 2 sugars", NewFlatPricer(decimal.NewFromFloat(4.0)), now)
	require.NoError(t, err)

	assert.Equal(t, uint(3), c.PersonID)
	assert.Equal(t, uint(9), c.RunID)
	assert.Equal(t, 400, c.Price)
	assert.True(t, c.GetPrice().Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "Large Latte, skim milk, 2 sugars", c.PrettyPrint())
	assert.Equal(t, now, c.Modified)
}

func TestNewCoffee_BadRequest(t *testing.T) {
	_, err := NewCoffee(1, 1, "", NewFlatPricer(decimal.NewFromInt(4)), time.Now())
	assert.ErrorIs(t, err, coffeespec.ErrEmptyRequest)
}

func TestCoffee_ToJSON(t *testing.T) {
	f := timefmt.New(time.UTC)
	c := Coffee{
		ID:       5,
		Person:   User{Name: "Sam"},
		RunID:    2,
		Spec:     coffeespec.Spec{Type: "mocha", Size: coffeespec.SizeSmall, Sugar: 1},
		Price:    350,
		Modified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	got := c.ToJSON(f)
	assert.Equal(t, uint(5), got.ID)
	assert.Equal(t, "Sam", got.Person)
	assert.Equal(t, "mocha", got.CoffeeType)
	assert.Equal(t, coffeespec.SizeSmall, got.Size)
	assert.Equal(t, 1, got.Sugar)
	assert.Equal(t, uint(2), got.RunID)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("3.50")))
	assert.Equal(t, "2024-01-02 03:04:05", got.Modified)
}
