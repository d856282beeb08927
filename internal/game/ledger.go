/*
Package game
File: ledger.go
Description:
    The economic ledger: coins on hand, coins in the bank, the cargo hold and
    the ship's capacity.

    The ledger is a permissive mutation surface. Affordability and quantity
    checks are done by the Engine before it calls in here; the ledger only
    guarantees that cargo never goes below zero.
*/

package game

// CargoItem is the amount of one good in the hold.
type CargoItem struct {
	Good   Good `json:"good"`
	Amount int  `json:"amount"`
}

// CargoHold keeps one entry per good, in hold order.
type CargoHold []CargoItem

// NewCargoHold returns an empty hold with an entry for every good.
func NewCargoHold(goods []Good) CargoHold {
	h := make(CargoHold, 0, len(goods))
	for _, g := range goods {
		h = append(h, CargoItem{Good: g})
	}
	return h
}

// Total is the sum of all amounts.
func (h CargoHold) Total() int {
	total := 0
	for _, item := range h {
		total += item.Amount
	}
	return total
}

// Amount returns how much of a good is on board.
func (h CargoHold) Amount(g Good) int {
	for _, item := range h {
		if item.Good == g {
			return item.Amount
		}
	}
	return 0
}

// Clone returns an independent copy.
func (h CargoHold) Clone() CargoHold {
	if h == nil {
		return nil
	}
	return append(CargoHold(nil), h...)
}

func (h *CargoHold) add(g Good, n int) {
	for i := range *h {
		if (*h)[i].Good == g {
			(*h)[i].Amount += n
			if (*h)[i].Amount < 0 {
				(*h)[i].Amount = 0
			}
			return
		}
	}
	if n > 0 {
		*h = append(*h, CargoItem{Good: g, Amount: n})
	}
}

// remove takes up to n units of a good and returns how many were taken.
func (h *CargoHold) remove(g Good, n int) int {
	for i := range *h {
		if (*h)[i].Good != g {
			continue
		}
		taken := min(n, (*h)[i].Amount)
		if taken < 0 {
			taken = 0
		}
		(*h)[i].Amount -= taken
		return taken
	}
	return 0
}

// Ledger is the merchant's money, cargo and ship.
type Ledger struct {
	Balance      int       `json:"balance"`
	Bank         int       `json:"bank"`
	Cargo        CargoHold `json:"cargo"`
	ShipCapacity int       `json:"ship_capacity"`
	Escorts      int       `json:"escorts"`
}

// NewLedger builds the starting ledger.
func NewLedger(start StartConfig, goods []Good) Ledger {
	return Ledger{
		Balance:      start.Balance,
		Bank:         start.Bank,
		Cargo:        NewCargoHold(goods),
		ShipCapacity: start.ShipCapacity,
	}
}

// Trade buys or sells qty units at price.
// Buy: balance -= price*qty, cargo += qty. Sell: the inverse, cargo floored at 0.
func (l *Ledger) Trade(g Good, qty int, isBuy bool, price int) {
	if isBuy {
		l.Balance -= price * qty
		l.Cargo.add(g, qty)
		return
	}
	l.Balance += price * qty
	l.Cargo.add(g, -qty)
}

// Deposit moves coins from the balance into the bank.
func (l *Ledger) Deposit(amount int) {
	l.Balance -= amount
	l.Bank += amount
}

// Withdraw moves coins from the bank to the balance.
func (l *Ledger) Withdraw(amount int) {
	l.Bank -= amount
	l.Balance += amount
}

// HireEscorts pays for defend ships. The fee is spent whatever happens at sea.
func (l *Ledger) HireEscorts(count, pricePerUnit int) {
	l.Balance -= count * pricePerUnit
	l.Escorts += count
}

// ClearEscorts dismisses the escorts at the end of a voyage.
func (l *Ledger) ClearEscorts() {
	l.Escorts = 0
}

// ExpandCapacity pays for and applies a capacity doubling.
func (l *Ledger) ExpandCapacity(price int) {
	l.Balance -= price
	l.ShipCapacity *= 2
}

// CargoValue prices the hold at the given port prices.
func (l *Ledger) CargoValue(prices map[Good]int) int {
	value := 0
	for _, item := range l.Cargo {
		value += item.Amount * prices[item.Good]
	}
	return value
}

// FreeSpace is the capacity left before departure would be refused.
func (l *Ledger) FreeSpace() int {
	return l.ShipCapacity - l.Cargo.Total()
}

// payToll deducts coins, never taking the balance below zero.
// Returns the amount actually paid.
func (l *Ledger) payToll(amount int) int {
	paid := min(amount, l.Balance)
	if paid < 0 {
		paid = 0
	}
	l.Balance -= paid
	return paid
}

func (l Ledger) clone() Ledger {
	l.Cargo = l.Cargo.Clone()
	return l
}
