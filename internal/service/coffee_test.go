package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/service"
)

func TestCoffeeService_OrderFlat(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	run := fx.run(t, fetcher, 0)

	coffee, err := fx.coffeeSvc.Order(ctx, fetcher.ID, run.ID, "large skim latte, 2 sugars", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, 400, coffee.Price)
	assert.Equal(t, "fetcher", coffee.Person.Name)
	assert.Equal(t, coffeespec.SizeLarge, coffee.Spec.Size)
	assert.Equal(t, "Large Latte, skim milk, 2 sugars", coffee.PrettyPrint())

	loaded, err := fx.coffeeSvc.GetCoffee(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, coffee.Spec, loaded.Spec)
	require.NotNil(t, loaded.Run)
	assert.Equal(t, run.ID, loaded.Run.ID)

	mine, err := fx.coffeeSvc.CoffeesOrderedBy(ctx, fetcher.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCoffeeService_PriceOverride(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	run := fx.run(t, fetcher, 0)

	coffee, err := fx.coffeeSvc.Order(ctx, fetcher.ID, run.ID, "mocha", decimal.RequireFromString("3.20"))
	require.NoError(t, err)
	assert.Equal(t, 320, coffee.Price)
}

func TestCoffeeService_OrderCafePricing(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, service.Pricing{Strategy: service.PricingCafe, Flat: decimal.NewFromInt(4)})
	fetcher := fx.user(t, "fetcher")

	cafe, err := fx.cafeSvc.CreateCafe(ctx, fetcher.ID, domain.Cafe{Name: "Campos"})
	require.NoError(t, err)
	_, err = fx.cafeSvc.AddPrice(ctx, fetcher.ID, domain.Price{CafeID: cafe.ID, Size: coffeespec.SizeMedium, Amount: decimal.RequireFromString("3.80")})
	require.NoError(t, err)
	_, err = fx.cafeSvc.AddModifier(ctx, fetcher.ID, domain.PriceModifier{CafeID: cafe.ID, ModType: "soy milk", Amount: decimal.RequireFromString("0.60")})
	require.NoError(t, err)

	run := fx.run(t, fetcher, cafe.ID)

	soy := fx.order(t, fetcher, run, "soy latte")
	assert.Equal(t, 440, soy.Price)

	// Large is not on the price list.
	large := fx.order(t, fetcher, run, "large latte")
	assert.Equal(t, 400, large.Price)
}

func TestCoffeeService_OrderErrors(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	run := fx.run(t, fetcher, 0)

	_, err := fx.coffeeSvc.Order(ctx, fetcher.ID, run.ID, "glass of water", decimal.Zero)
	assert.ErrorIs(t, err, service.ErrUnknownCoffee)

	_, err = fx.coffeeSvc.Order(ctx, fetcher.ID, run.ID, "", decimal.Zero)
	assert.ErrorIs(t, err, service.ErrEmptyRequest)

	_, err = fx.coffeeSvc.Order(ctx, fetcher.ID, 99, "latte", decimal.Zero)
	assert.ErrorIs(t, err, service.ErrRunNotFound)

	_, _, err = fx.runSvc.CloseRun(ctx, fetcher.ID, run.ID, 0)
	require.NoError(t, err)

	_, err = fx.coffeeSvc.Order(ctx, fetcher.ID, run.ID, "latte", decimal.Zero)
	assert.ErrorIs(t, err, service.ErrRunClosed)

	_, err = fx.coffeeSvc.GetCoffee(ctx, 99)
	assert.ErrorIs(t, err, service.ErrCoffeeNotFound)
}
