/*
Package game
File: economy.go
Description:
    Handles the economic side of the voyage simulation.
    This includes:
    1. Drawing the per-port price table on every day rollover.
    2. Rolling the daily cargo expansion offer.
    3. Quoting the price of escort ships before a departure.
*/

package game

import "math"

// PriceTable maps Port -> Good -> price. It is replaced wholesale, never
// edited in place.
type PriceTable map[Port]map[Good]int

// Price looks up one price. ok is false when the port or good is missing.
func (t PriceTable) Price(p Port, g Good) (int, bool) {
	goods, ok := t[p]
	if !ok {
		return 0, false
	}
	price, ok := goods[g]
	return price, ok
}

// Clone returns an independent copy.
func (t PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(t))
	for p, goods := range t {
		row := make(map[Good]int, len(goods))
		for g, price := range goods {
			row[g] = price
		}
		out[p] = row
	}
	return out
}

// GeneratePrice draws a price inside the band that is a multiple of the step
// away from the minimum.
func GeneratePrice(band GoodConfig, rng Random) int {
	steps := (band.MaxPrice-band.MinPrice)/band.Step + 1
	return band.MinPrice + rng.IntN(steps)*band.Step
}

// GeneratePrices draws one price per good for a single port.
func GeneratePrices(goods []GoodConfig, rng Random) map[Good]int {
	prices := make(map[Good]int, len(goods))
	for _, band := range goods {
		prices[band.Name] = GeneratePrice(band, rng)
	}
	return prices
}

// GeneratePriceTable draws a fresh table for every port. Prices at each port
// are independent of every other port and of the previous day.
func GeneratePriceTable(ports []Port, goods []GoodConfig, rng Random) PriceTable {
	table := make(PriceTable, len(ports))
	for _, p := range ports {
		table[p] = GeneratePrices(goods, rng)
	}
	return table
}

// RollExpansionOffer decides whether a capacity doubling is offered today.
// balance is the balance from before the rollover.
func RollExpansionOffer(day, balance, capacity int, cfg ExpansionConfig, rng Random) *ExpansionOffer {
	// 1. Eligibility: only merchants with enough coin get approached
	if balance < cfg.MinBalance {
		return nil
	}

	// 2. The shipwright is not always in port
	if !chance(rng, cfg.Chance) {
		return nil
	}

	// 3. Price: a share of the balance, at least the floor, never more than the ceiling share
	b := float64(balance)
	price := math.Min(math.Max(float64(cfg.MinPrice), b*cfg.PriceFraction), b*cfg.MaxPriceFraction)

	return &ExpansionOffer{
		Day:         day,
		Price:       int(math.Round(price)),
		NewCapacity: capacity * 2,
	}
}

// QuoteEscorts prices defend ships from the merchant's total wealth.
func QuoteEscorts(balance, cargoValue int, cfg EscortConfig) EscortQuote {
	total := float64(balance + cargoValue)
	price := int(math.Round(total * cfg.ValueFraction))
	price = max(cfg.MinPrice, min(price, cfg.MaxPrice))

	maxShips := 0
	if price > 0 {
		maxShips = min(cfg.MaxShips, balance/price)
	}
	if maxShips < 0 {
		maxShips = 0
	}
	return EscortQuote{PricePerShip: price, MaxShips: maxShips}
}
