package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/order"
	"github.com/thrasher-corp/papertrader/position"
)

// CheckForcedLiquidation closes every margin lot at the tick price once the
// unrealised loss, fees included, exceeds the liquidation threshold times
// the margin collateral. The closing deltas bypass affordability checks. A
// nil Liquidation means nothing was closed
func (e *Engine) CheckForcedLiquidation() (*Liquidation, error) {
	if !e.started {
		return nil, errNoTick
	}
	book := e.lots[ledger.Margin]
	if book.IsEmpty() {
		return nil, nil
	}
	pnl := book.UnrealisedPNL(e.tick.Price, e.fee)
	if !pnl.IsNegative() {
		return nil, nil
	}
	collateral, err := e.ledger.Projected(ledger.Margin, ledger.Collateral)
	if err != nil {
		return nil, err
	}
	loss := pnl.Neg()
	if loss.LessThanOrEqual(collateral.Mul(e.threshold)) {
		return nil, nil
	}

	closed, err := book.Preview(book.Quantity(), e.tick.Price, e.fee)
	if err != nil {
		return nil, err
	}
	if err = e.ledger.Force(e.closeDeltas(&closed)...); err != nil {
		return nil, fmt.Errorf("forced liquidation: %w", err)
	}
	book.Apply(closed)
	e.realisedPNL = e.realisedPNL.Add(closed.RealisedPNL)
	e.tickRealisedPNL = e.tickRealisedPNL.Add(closed.RealisedPNL)

	liq := Liquidation{
		Tick:        e.tick.Index,
		Price:       e.tick.Price,
		Direction:   closed.Direction,
		Quantity:    closed.Quantity,
		Loss:        loss,
		Collateral:  collateral,
		RealisedPNL: closed.RealisedPNL,
	}
	log.Warnf(log.OrderEngine, "tick %d forced liquidation of %s %s margin position at %s: loss %s exceeded collateral %s",
		liq.Tick, liq.Quantity, liq.Direction, liq.Price, liq.Loss, liq.Collateral)
	if e.observer != nil {
		e.observer.OnLiquidation(liq)
	}
	return &liq, nil
}

// UnrealisedPNL returns the profit of closing every lot of an account at the
// tick price, fees included
func (e *Engine) UnrealisedPNL(a ledger.Account) (decimal.Decimal, error) {
	book, ok := e.lots[a]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d", ledger.ErrUnknownAccount, a)
	}
	return book.UnrealisedPNL(e.tick.Price, e.fee), nil
}

// RealisedPNL returns the profit booked by every close so far
func (e *Engine) RealisedPNL() decimal.Decimal {
	return e.realisedPNL
}

// TickRealisedPNL returns the profit booked since the tick began
func (e *Engine) TickRealisedPNL() decimal.Decimal {
	return e.tickRealisedPNL
}

// Position returns the direction and absolute size of an account's position
func (e *Engine) Position(a ledger.Account) (order.Direction, decimal.Decimal, error) {
	book, ok := e.lots[a]
	if !ok {
		return order.UnknownDirection, decimal.Zero, fmt.Errorf("%w: %d", ledger.ErrUnknownAccount, a)
	}
	return book.Direction(), book.Quantity(), nil
}

// Lots returns a copy of an account's open lots
func (e *Engine) Lots(a ledger.Account) ([]position.Lot, error) {
	book, ok := e.lots[a]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ledger.ErrUnknownAccount, a)
	}
	return book.Lots(), nil
}

// Equity values both accounts as if every position closed at the tick
// price: spot quote plus fee deflated spot base proceeds, plus margin
// collateral and margin unrealised profit
func (e *Engine) Equity() (decimal.Decimal, error) {
	spotQuote, err := e.ledger.Projected(ledger.Spot, ledger.Quote)
	if err != nil {
		return decimal.Zero, err
	}
	spotBase, err := e.ledger.Projected(ledger.Spot, ledger.Base)
	if err != nil {
		return decimal.Zero, err
	}
	collateral, err := e.ledger.Projected(ledger.Margin, ledger.Collateral)
	if err != nil {
		return decimal.Zero, err
	}
	proceeds := spotBase.Mul(e.tick.Price).Div(one.Add(e.fee))
	marginPNL := e.lots[ledger.Margin].UnrealisedPNL(e.tick.Price, e.fee)
	return spotQuote.Add(proceeds).Add(collateral).Add(marginPNL), nil
}
