package domain

import "sort"

// SettlementPolicy decides who owes the fetcher what once a run is closed.
// totalCost is what the fetcher actually paid, in cents.
type SettlementPolicy interface {
	Settle(run Run, totalCost int) []MoneyExchange
}

// ProportionalSplit shares what the fetcher paid between the orders in
// proportion to their listed prices. Leftover cents go to the orders with
// the largest remainders, lowest coffee id first. A totalCost of zero or less
// means the listed prices were paid exactly. The fetcher's own orders take
// part in the split but create no exchange; every other orderer gets one
// exchange covering all of their orders.
type ProportionalSplit struct{}

func (ProportionalSplit) Settle(run Run, totalCost int) []MoneyExchange {
	if len(run.Coffees) == 0 {
		return nil
	}

	listed := 0
	for _, c := range run.Coffees {
		listed += chargeable(c.Price)
	}
	if totalCost <= 0 {
		totalCost = listed
	}

	shares := splitCents(run.Coffees, listed, totalCost)

	owed := make(map[uint]int)
	for i, c := range run.Coffees {
		if c.PersonID == run.FetcherID {
			continue
		}
		owed[c.PersonID] += shares[i]
	}

	payers := make([]uint, 0, len(owed))
	for payer, amount := range owed {
		if amount > 0 {
			payers = append(payers, payer)
		}
	}
	sort.Slice(payers, func(i, j int) bool { return payers[i] < payers[j] })

	runID := run.ID
	exchanges := make([]MoneyExchange, 0, len(payers))
	for _, payer := range payers {
		exchanges = append(exchanges, MoneyExchange{
			PayerID: payer,
			PayeeID: run.FetcherID,
			Amount:  owed[payer],
			RunID:   &runID,
		})
	}

	return exchanges
}

// chargeable drops negative prices to zero so they never pull a share below
// nothing.
func chargeable(cents int) int {
	if cents < 0 {
		return 0
	}
	return cents
}

// splitCents apportions total between coffees by weight using the largest
// remainder method. Weights are the coffee prices; if they are all zero
// every coffee weighs the same.
func splitCents(coffees []Coffee, listed, total int) []int {
	weights := make([]int64, len(coffees))
	var weightSum int64
	for i, c := range coffees {
		w := int64(chargeable(c.Price))
		if listed <= 0 {
			w = 1
		}
		weights[i] = w
		weightSum += w
	}

	shares := make([]int, len(coffees))
	remainders := make([]int64, len(coffees))
	assigned := 0
	for i, w := range weights {
		product := int64(total) * w
		shares[i] = int(product / weightSum)
		remainders[i] = product % weightSum
		assigned += shares[i]
	}

	order := make([]int, len(coffees))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := remainders[order[a]], remainders[order[b]]
		if ra != rb {
			return ra > rb
		}
		return coffees[order[a]].ID < coffees[order[b]].ID
	})

	for i := 0; assigned < total; i++ {
		shares[order[i%len(order)]]++
		assigned++
	}

	return shares
}
