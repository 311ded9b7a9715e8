package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func coffeesFor(prices map[uint][]int) []Coffee {
	var coffees []Coffee
	id := uint(1)
	for _, person := range []uint{1, 2, 3, 4} {
		for _, p := range prices[person] {
			coffees = append(coffees, Coffee{ID: id, PersonID: person, Price: p})
			id++
		}
	}
	return coffees
}

func sumAmounts(exchanges []MoneyExchange) int {
	total := 0
	for _, e := range exchanges {
		total += e.Amount
	}
	return total
}

func TestProportionalSplit_ListedPrices(t *testing.T) {
	run := Run{ID: 10, FetcherID: 1, Coffees: coffeesFor(map[uint][]int{
		1: {400},
		2: {400, 350},
		3: {450},
	})}

	got := ProportionalSplit{}.Settle(run, 0)

	if assert.Len(t, got, 2) {
		assert.Equal(t, uint(2), got[0].PayerID)
		assert.Equal(t, uint(1), got[0].PayeeID)
		assert.Equal(t, 750, got[0].Amount)
		assert.Equal(t, uint(10), *got[0].RunID)

		assert.Equal(t, uint(3), got[1].PayerID)
		assert.Equal(t, 450, got[1].Amount)
	}
}

func TestProportionalSplit_ScalesToReceipt(t *testing.T) {
	// Three equal orders, receipt of $10.00: 334/333/333.
	run := Run{ID: 1, FetcherID: 4, Coffees: coffeesFor(map[uint][]int{
		1: {400},
		2: {400},
		3: {400},
	})}

	got := ProportionalSplit{}.Settle(run, 1000)

	assert.Equal(t, 1000, sumAmounts(got))
	if assert.Len(t, got, 3) {
		assert.Equal(t, 334, got[0].Amount)
		assert.Equal(t, 333, got[1].Amount)
		assert.Equal(t, 333, got[2].Amount)
	}
}

func TestProportionalSplit_FetcherShareNotCharged(t *testing.T) {
	run := Run{ID: 1, FetcherID: 1, Coffees: coffeesFor(map[uint][]int{
		1: {500},
		2: {500},
	})}

	got := ProportionalSplit{}.Settle(run, 800)

	if assert.Len(t, got, 1) {
		assert.Equal(t, uint(2), got[0].PayerID)
		assert.Equal(t, 400, got[0].Amount)
	}
}

func TestProportionalSplit_ZeroPricesSplitEvenly(t *testing.T) {
	run := Run{ID: 1, FetcherID: 4, Coffees: coffeesFor(map[uint][]int{
		1: {0},
		2: {0},
	})}

	got := ProportionalSplit{}.Settle(run, 901)

	assert.Equal(t, 901, sumAmounts(got))
	if assert.Len(t, got, 2) {
		assert.Equal(t, 451, got[0].Amount)
		assert.Equal(t, 450, got[1].Amount)
	}
}

func TestProportionalSplit_NegativePriceChargesNothing(t *testing.T) {
	run := Run{ID: 1, FetcherID: 4, Coffees: coffeesFor(map[uint][]int{
		1: {-300},
		2: {400},
	})}

	got := ProportionalSplit{}.Settle(run, 0)

	if assert.Len(t, got, 1) {
		assert.Equal(t, uint(2), got[0].PayerID)
		assert.Equal(t, 400, got[0].Amount)
	}
}

func TestProportionalSplit_NoOrders(t *testing.T) {
	assert.Empty(t, ProportionalSplit{}.Settle(Run{FetcherID: 1}, 1000))
}

func TestProportionalSplit_OnlyFetcherOrdered(t *testing.T) {
	run := Run{FetcherID: 1, Coffees: coffeesFor(map[uint][]int{1: {400, 400}})}

	assert.Empty(t, ProportionalSplit{}.Settle(run, 0))
}
