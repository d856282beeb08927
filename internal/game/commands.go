package game

// Commands available while docked. Each one validates at the boundary so
// the ledger can stay a plain mutation surface.

// Trade buys or sells at the current port's price.
func (e *Engine) Trade(g Good, qty int, isBuy bool) error {
	const op = "trade"

	if err := e.docked(op); err != nil {
		return err
	}
	if qty <= 0 {
		return reject(op, "quantity must be positive")
	}
	price, ok := e.prices.Price(e.port, g)
	if !ok {
		return reject(op, "%s is not traded in %s", g, e.port)
	}
	if isBuy && qty > e.ledger.Balance/price {
		return reject(op, "%d %s at %d each cost more than your %d", qty, g, price, e.ledger.Balance)
	}
	if !isBuy && qty > e.ledger.Cargo.Amount(g) {
		return reject(op, "you only have %d %s", e.ledger.Cargo.Amount(g), g)
	}

	e.ledger.Trade(g, qty, isBuy, price)
	e.log.Debug("trade", "good", g, "qty", qty, "buy", isBuy, "price", price, "balance", e.ledger.Balance)
	return nil
}

// BankTransfer deposits or withdraws coins.
func (e *Engine) BankTransfer(kind BankAction, amount int) error {
	const op = "bank"

	if err := e.docked(op); err != nil {
		return err
	}
	if amount <= 0 {
		return reject(op, "amount must be positive")
	}

	switch kind {
	case BankDeposit:
		if amount > e.ledger.Balance {
			return reject(op, "cannot deposit %d, you have %d", amount, e.ledger.Balance)
		}
		e.ledger.Deposit(amount)
	case BankWithdraw:
		if amount > e.ledger.Bank {
			return reject(op, "cannot withdraw %d, the bank holds %d", amount, e.ledger.Bank)
		}
		e.ledger.Withdraw(amount)
	default:
		return reject(op, "unknown bank action %q", kind)
	}

	e.log.Debug("bank transfer", "kind", string(kind), "amount", amount, "balance", e.ledger.Balance, "bank", e.ledger.Bank)
	return nil
}

// EscortQuote prices defend ships for the next departure.
func (e *Engine) EscortQuote() EscortQuote {
	return QuoteEscorts(e.ledger.Balance, e.cargoValue(), e.cfg.Escorts)
}

// HireEscorts pays for count defend ships. They stay with the ship until
// the next voyage finishes.
func (e *Engine) HireEscorts(count, pricePerUnit int) error {
	const op = "hire escorts"

	if err := e.docked(op); err != nil {
		return err
	}
	if count < 0 || pricePerUnit < 0 {
		return reject(op, "count and price must not be negative")
	}
	if count > e.cfg.Escorts.MaxShips-e.ledger.Escorts {
		return reject(op, "at most %d escorts can sail with you", e.cfg.Escorts.MaxShips)
	}
	if pricePerUnit > 0 && count > e.ledger.Balance/pricePerUnit {
		return reject(op, "%d escorts at %d each cost more than your %d", count, pricePerUnit, e.ledger.Balance)
	}

	e.ledger.HireEscorts(count, pricePerUnit)
	e.log.Info("escorts hired", "count", count, "price", pricePerUnit, "total", e.ledger.Escorts)
	return nil
}

// AcceptExpansion buys the pending capacity offer.
func (e *Engine) AcceptExpansion() error {
	const op = "accept expansion"

	if e.GameOver() {
		return reject(op, "the season is over")
	}
	if e.offer == nil {
		return reject(op, "no expansion offer is pending")
	}
	if e.offer.Price > e.ledger.Balance {
		return reject(op, "the expansion costs %d, you have %d", e.offer.Price, e.ledger.Balance)
	}

	e.ledger.ExpandCapacity(e.offer.Price)
	e.log.Info("expansion accepted", "price", e.offer.Price, "capacity", e.ledger.ShipCapacity)
	e.offer = nil
	return nil
}

// DeclineExpansion discards the pending offer.
func (e *Engine) DeclineExpansion() error {
	if e.offer == nil {
		return reject("decline expansion", "no expansion offer is pending")
	}
	e.log.Info("expansion declined", "price", e.offer.Price)
	e.offer = nil
	return nil
}

// Rest ends the day in harbour.
func (e *Engine) Rest() error {
	if err := e.docked("rest"); err != nil {
		return err
	}
	e.clock.AdvanceToNextDay()
	return nil
}

func (e *Engine) docked(op string) error {
	if e.GameOver() {
		return reject(op, "the season is over")
	}
	if e.voyage != nil {
		return reject(op, "not while at sea")
	}
	return nil
}
