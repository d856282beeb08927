/*
Package game
File: events.go
Description:
    Resolution of the risks assigned to a voyage.

    Storm, Deserted Ships and Navigation Error resolve automatically the
    moment they fire. Pirates wait for the player to pick escape, negotiate
    or fight. Every resolver mutates only the ledger; none of them touch the
    clock.
*/

package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

var pirateOptions = []EventOption{
	{Label: "Escape", Value: OptionEscape},
	{Label: "Negotiate", Value: OptionNegotiate},
	{Label: "Fight", Value: OptionFight},
}

const pirateNarrative = "Pirate ships are closing in! Will you try to escape, negotiate, or fight?"

// resolveStorm throws a share of the cargo overboard, first-fit in hold order.
func resolveStorm(l *Ledger, cfg StormConfig, rng Random) Outcome {
	out := Outcome{Kind: RiskStorm}

	total := l.Cargo.Total()
	if total == 0 {
		out.Narrative = "A storm rolls over the ship, but with an empty hold there is nothing to lose."
		return out
	}

	loss := max(1, int(math.Floor(float64(total)*uniform(rng, cfg.MinLoss, cfg.MaxLoss))))
	out.CargoLost = removeFirstFit(&l.Cargo, loss)
	out.Narrative = fmt.Sprintf(
		"A violent storm batters the ship and cargo is thrown overboard to keep her steady. You lost %s.",
		describeCargo(out.CargoLost),
	)
	return out
}

// salvageInput is what the deserted ships resolver reads besides the ledger.
type salvageInput struct {
	destination Port
	prices      PriceTable
	localPrices map[Good]int
	goods       []Good
}

// resolveSalvage loads goods found on deserted ships, priced at the
// destination and capped by the free space in the hold.
func resolveSalvage(l *Ledger, in salvageInput, cfg SalvageConfig, rng Random) Outcome {
	out := Outcome{Kind: RiskDesertedShips}

	totalValue := float64(l.Balance + l.CargoValue(in.localPrices))
	gainValue := totalValue * uniform(rng, cfg.MinGain, cfg.MaxGain)

	space := l.FreeSpace()
	if space <= 0 {
		out.Narrative = "You come upon a fleet of deserted ships, but your hold is already full. You sail on empty-handed."
		return out
	}
	if in.destination == "" || len(in.goods) == 0 {
		out.Narrative = "You spot deserted ships drifting on the horizon, but strong currents keep you from reaching them."
		return out
	}

	good := in.goods[rng.IntN(len(in.goods))]
	price, ok := in.prices.Price(in.destination, good)
	if !ok || price <= 0 {
		out.Narrative = "The deserted ships have already been stripped bare. Nothing of value is left."
		return out
	}

	tons := min(int(math.Floor(gainValue/float64(price))), space)
	if tons <= 0 {
		out.Narrative = "You search the deserted ships from bow to stern but find no cargo worth taking."
		return out
	}

	l.Cargo.add(good, tons)
	out.CargoGained = CargoHold{{Good: good, Amount: tons}}
	out.Narrative = fmt.Sprintf(
		"You discover a fleet of deserted ships adrift. After a search you haul %s aboard from their holds.",
		describeCargo(out.CargoGained),
	)
	return out
}

// resolvePirates applies the player's choice. escorts nudge the odds and the reward.
func resolvePirates(option string, l *Ledger, cfg PirateConfig, rng Random) (Outcome, error) {
	out := Outcome{Kind: RiskPirate, Option: option}
	escorts := float64(l.Escorts)

	switch option {
	case OptionEscape:
		p := math.Min(cfg.EscapeChance+cfg.EscapeBonusPerEscort*escorts, cfg.EscapeChanceCap)
		if chance(rng, p) {
			out.Narrative = "With clever manoeuvring you slip away from the pirates. Nothing is lost."
			return out, nil
		}
		if l.Cargo.Total() == 0 {
			paid := l.payToll(between(rng, cfg.EscapeToll))
			out.BalanceDelta = -paid
			out.Narrative = fmt.Sprintf("The escape fails. The pirates catch you and demand a ransom of %s coins.", humanize.Comma(int64(paid)))
			return out, nil
		}
		total := l.Cargo.Total()
		loss := max(1, int(math.Floor(float64(total)*uniform(rng, cfg.EscapeMinLoss, cfg.EscapeMaxLoss))))
		out.CargoLost = removeLargestFirst(&l.Cargo, loss)
		out.Narrative = fmt.Sprintf("The escape fails. The pirates board your ship and steal %s.", describeCargo(out.CargoLost))
		return out, nil

	case OptionNegotiate:
		if l.Cargo.Total() == 0 {
			paid := l.payToll(between(rng, cfg.NegotiateToll))
			out.BalanceDelta = -paid
			out.Narrative = fmt.Sprintf("With no cargo to offer, you pay the pirates a toll of %s coins and they let you pass.", humanize.Comma(int64(paid)))
			return out, nil
		}
		out.CargoLost = removeOneEach(&l.Cargo)
		out.Narrative = "You agree to hand over one unit of every cargo you carry. The pirates let you go."
		return out, nil

	case OptionFight:
		p := math.Min(cfg.FightChance+cfg.FightBonusPerEscort*escorts, cfg.FightChanceCap)
		if chance(rng, p) {
			plunder := int(math.Round(float64(between(rng, cfg.Plunder)) * (1 + cfg.PlunderBonusPerEscort*escorts)))
			l.Balance += plunder
			out.BalanceDelta = plunder
			out.Narrative = fmt.Sprintf("Battle is joined! You overpower the pirates and plunder %s coins from them.", humanize.Comma(int64(plunder)))
			return out, nil
		}
		if l.Cargo.Total() == 0 {
			paid := l.payToll(between(rng, cfg.FightToll))
			out.BalanceDelta = -paid
			out.Narrative = fmt.Sprintf("You fight bravely but the pirates win. Finding no cargo, they take %s coins instead.", humanize.Comma(int64(paid)))
			return out, nil
		}
		out.CargoLost = removeOneEach(&l.Cargo)
		out.Narrative = "You fight bravely but the pirates win. You lose one unit of every cargo you carry."
		return out, nil
	}

	return out, reject("resolve event", "unknown option %q", option)
}

// navigationNarrative describes a course error toward target.
func navigationNarrative(target Port) string {
	if target == "" {
		return "Your navigator misreads the stars, but the mistake is caught before the ship strays."
	}
	return fmt.Sprintf("Your navigator misreads the stars. By the time the error is found, the ship is bound for %s.", target)
}

// removeFirstFit takes units in hold order until the quota is met.
func removeFirstFit(h *CargoHold, quota int) CargoHold {
	var lost CargoHold
	for i := range *h {
		if quota <= 0 {
			break
		}
		take := min((*h)[i].Amount, quota)
		if take <= 0 {
			continue
		}
		(*h)[i].Amount -= take
		quota -= take
		lost = append(lost, CargoItem{Good: (*h)[i].Good, Amount: take})
	}
	return lost
}

// removeLargestFirst repeatedly empties whichever good has the most units.
func removeLargestFirst(h *CargoHold, quota int) CargoHold {
	var lost CargoHold
	for quota > 0 {
		idx := -1
		most := 0
		for i, item := range *h {
			if item.Amount > most {
				most = item.Amount
				idx = i
			}
		}
		if idx == -1 {
			break
		}
		take := min(most, quota)
		(*h)[idx].Amount -= take
		quota -= take
		lost = append(lost, CargoItem{Good: (*h)[idx].Good, Amount: take})
	}
	return lost
}

// removeOneEach takes exactly one unit of every good that has any.
func removeOneEach(h *CargoHold) CargoHold {
	var lost CargoHold
	for i := range *h {
		if (*h)[i].Amount > 0 {
			(*h)[i].Amount--
			lost = append(lost, CargoItem{Good: (*h)[i].Good, Amount: 1})
		}
	}
	return lost
}

func describeCargo(items CargoHold) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		unit := "tons"
		if item.Amount == 1 {
			unit = "ton"
		}
		parts = append(parts, fmt.Sprintf("%d %s of %s", item.Amount, unit, item.Good))
	}
	return strings.Join(parts, ", ")
}

// OnMidpoint is called by the host when the voyage reaches its event point.
// It returns the event that fired, or nil when there is nothing to resolve.
func (e *Engine) OnMidpoint() (*Event, error) {
	v := e.voyage
	if v == nil {
		return nil, reject("midpoint", "no voyage in progress")
	}
	if v.Risk == RiskNone || v.EventFired {
		return nil, nil
	}

	v.Pause()
	v.MarkEventFired()

	e.eventSeq++
	ev := &Event{ID: e.eventSeq, Kind: v.Risk, Title: v.Risk.Title()}
	e.event = ev

	switch v.Risk {
	case RiskPirate:
		ev.Narrative = pirateNarrative
		ev.Options = append([]EventOption(nil), pirateOptions...)
		e.log.Info("event fired", "kind", string(ev.Kind), "id", ev.ID, "escorts", e.ledger.Escorts)
		return ev.clone(), nil

	case RiskStorm:
		e.complete(ev, resolveStorm(&e.ledger, e.cfg.Storm, e.rng))

	case RiskDesertedShips:
		e.complete(ev, resolveSalvage(&e.ledger, salvageInput{
			destination: v.To,
			prices:      e.prices,
			localPrices: e.prices[e.port],
			goods:       e.cfg.GoodNames(),
		}, e.cfg.Salvage, e.rng))

	case RiskNavigationError:
		v.RerouteTarget = e.pickRerouteTarget(v)
		e.complete(ev, Outcome{
			Kind:      RiskNavigationError,
			Narrative: navigationNarrative(v.RerouteTarget),
			RerouteTo: v.RerouteTarget,
		})
	}

	return ev.clone(), nil
}

// ResolveEventOption applies the player's choice to a pending interactive event.
func (e *Engine) ResolveEventOption(value string) (Outcome, error) {
	const op = "resolve event"

	if e.voyage == nil {
		return Outcome{}, reject(op, "no voyage in progress")
	}
	if e.event == nil {
		return Outcome{}, reject(op, "no event is pending")
	}
	if e.event.Resolved {
		return Outcome{}, reject(op, "the %s event is already resolved", e.event.Kind)
	}

	out, err := resolvePirates(value, &e.ledger, e.cfg.Pirates, e.rng)
	if err != nil {
		return Outcome{}, err
	}
	e.complete(e.event, out)
	return out.clone(), nil
}

// complete attaches an outcome to the event and notifies the host.
func (e *Engine) complete(ev *Event, out Outcome) {
	out.EventID = ev.ID
	ev.Resolved = true
	ev.Outcome = &out
	if !ev.Kind.Interactive() {
		ev.Narrative = out.Narrative
	}

	e.log.Info("event resolved",
		"kind", string(out.Kind),
		"id", ev.ID,
		"option", out.Option,
		"balance_delta", out.BalanceDelta,
		"lost", out.CargoLost.Total(),
		"gained", out.CargoGained.Total(),
	)
	if e.hooks.EventResolved != nil {
		e.hooks.EventResolved(out.clone())
	}
}

// pickRerouteTarget chooses uniformly among ports other than origin and destination.
func (e *Engine) pickRerouteTarget(v *Voyage) Port {
	var candidates []Port
	for _, p := range e.cfg.PortNames() {
		if p != v.From && p != v.To {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[e.rng.IntN(len(candidates))]
}
