package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	gctmath "github.com/thrasher-corp/papertrader/common/math"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/order"
	"github.com/thrasher-corp/papertrader/position"
)

var one = decimal.NewFromInt(1)

// New returns an Engine trading against l
func New(l *ledger.Ledger, s Settings) (*Engine, error) {
	if l == nil {
		return nil, errNilLedger
	}
	if s.TradingFee.IsNegative() || s.TradingFee.GreaterThanOrEqual(one) {
		return nil, fmt.Errorf("%w: %s", errInvalidFee, s.TradingFee)
	}
	threshold := s.LiquidationThreshold
	if threshold.IsZero() {
		threshold = one
	}
	if threshold.IsNegative() || threshold.GreaterThan(one) {
		return nil, fmt.Errorf("%w: %s", errInvalidThreshold, threshold)
	}
	fee := decimal.Zero
	if s.IncludeFee {
		fee = s.TradingFee
	}
	return &Engine{
		ledger:        l,
		fee:           fee,
		threshold:     threshold,
		deductExitFee: s.DeductExitFee,
		book:          order.NewBook(),
		lots: map[ledger.Account]*position.Book{
			ledger.Spot:   {},
			ledger.Margin: {},
		},
	}, nil
}

// SetObserver registers the receiver of order results and liquidations
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Fee returns the effective trading fee, zero when fees are excluded
func (e *Engine) Fee() decimal.Decimal {
	return e.fee
}

// Err returns the first programming error met by the engine, such as an
// order for an account the ledger does not hold. A run must stop on it
func (e *Engine) Err() error {
	return e.fatal
}

func (e *Engine) setFatal(err error) {
	if e.fatal == nil {
		e.fatal = err
	}
}

// BeginTick sets the price every order executes at until the next tick and
// resets the tick's realised profit
func (e *Engine) BeginTick(t feed.Tick) error {
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: %s at tick %d", errInvalidPrice, t.Price, t.Index)
	}
	if e.started && t.Index <= e.tick.Index {
		return fmt.Errorf("%w: %d after %d", errTickOutOfOrder, t.Index, e.tick.Index)
	}
	e.tick = t
	e.started = true
	e.tickRealisedPNL = decimal.Zero
	return nil
}

// Tick returns the tick orders currently execute at
func (e *Engine) Tick() feed.Tick {
	return e.tick
}

// Submit executes a request at the tick price, or rests it as an open order
// when its limit price has not been reached
func (e *Engine) Submit(r order.Request) order.Result {
	if !e.started {
		e.setFatal(errNoTick)
		return e.notify(order.NewRejected(0, 0, r, errNoTick))
	}
	if err := r.Validate(); err != nil {
		if errors.Is(err, ledger.ErrUnknownAccount) {
			e.setFatal(err)
		}
		log.Debugf(log.OrderEngine, "tick %d rejected %s: %v", e.tick.Index, r.String(), err)
		return e.notify(order.NewRejected(0, e.tick.Index, r, err))
	}
	if !r.Triggered(e.tick.Price) {
		o := e.book.Add(r, e.tick.Index)
		log.Debugf(log.OrderEngine, "tick %d order %d opened: %s", e.tick.Index, o.ID, r.String())
		return e.notify(order.NewOpened(o.ID, e.tick.Index, r))
	}
	return e.notify(e.execute(0, r))
}

// EnterLong buys into a long position
func (e *Engine) EnterLong(a ledger.Account, amount decimal.Decimal, isPercent bool, limitPrice decimal.Decimal) order.Result {
	return e.Submit(order.Request{Account: a, Direction: order.Long, Action: order.Enter, Amount: amount, IsPercent: isPercent, LimitPrice: limitPrice})
}

// ExitLong sells out of a long position
func (e *Engine) ExitLong(a ledger.Account, amount decimal.Decimal, isPercent bool, limitPrice decimal.Decimal) order.Result {
	return e.Submit(order.Request{Account: a, Direction: order.Long, Action: order.Exit, Amount: amount, IsPercent: isPercent, LimitPrice: limitPrice})
}

// EnterShort sells into a short position
func (e *Engine) EnterShort(a ledger.Account, amount decimal.Decimal, isPercent bool, limitPrice decimal.Decimal) order.Result {
	return e.Submit(order.Request{Account: a, Direction: order.Short, Action: order.Enter, Amount: amount, IsPercent: isPercent, LimitPrice: limitPrice})
}

// ExitShort buys back a short position
func (e *Engine) ExitShort(a ledger.Account, amount decimal.Decimal, isPercent bool, limitPrice decimal.Decimal) order.Result {
	return e.Submit(order.Request{Account: a, Direction: order.Short, Action: order.Exit, Amount: amount, IsPercent: isPercent, LimitPrice: limitPrice})
}

// Cancel removes an open order
func (e *Engine) Cancel(id uint64) error {
	if err := e.book.Remove(id); err != nil {
		return err
	}
	log.Debugf(log.OrderEngine, "tick %d order %d cancelled", e.tick.Index, id)
	return nil
}

// OpenOrders returns the resting orders in ascending id order
func (e *Engine) OpenOrders() []order.Open {
	return e.book.List()
}

// EvaluateOpenOrders executes every open order triggered by the tick price
// in ascending id order. Triggered orders leave the book whether they fill
// or are rejected
func (e *Engine) EvaluateOpenOrders() []order.Result {
	if !e.started {
		e.setFatal(errNoTick)
		return nil
	}
	var results []order.Result
	for _, o := range e.book.List() {
		if !o.Request.Triggered(e.tick.Price) {
			continue
		}
		if err := e.book.Remove(o.ID); err != nil {
			e.setFatal(err)
			continue
		}
		results = append(results, e.notify(e.execute(o.ID, o.Request)))
	}
	return results
}

func (e *Engine) notify(r order.Result) order.Result {
	if e.observer != nil {
		e.observer.OnOrderResult(r)
	}
	return r
}

func (e *Engine) execute(id uint64, r order.Request) order.Result {
	fill, err := e.fill(&r)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownAccount) || errors.Is(err, ledger.ErrUnknownAsset) {
			e.setFatal(err)
		}
		log.Debugf(log.OrderEngine, "tick %d rejected %s: %v", e.tick.Index, r.String(), err)
		return order.NewRejected(id, e.tick.Index, r, err)
	}
	e.realisedPNL = e.realisedPNL.Add(fill.RealisedPNL)
	e.tickRealisedPNL = e.tickRealisedPNL.Add(fill.RealisedPNL)
	log.Debugf(log.OrderEngine, "tick %d filled %s: %s at %s fee %s pnl %s",
		e.tick.Index, r.String(), fill.Quantity, fill.Price, fill.Fee, fill.RealisedPNL)
	return order.NewFilled(id, e.tick.Index, r, fill)
}

func (e *Engine) fill(r *order.Request) (order.Fill, error) {
	qty, err := e.quantity(r)
	if err != nil {
		return order.Fill{}, err
	}
	if !qty.IsPositive() {
		return order.Fill{}, fmt.Errorf("%w: %s converts to no quantity", ledger.ErrInsufficientFunds, r.String())
	}
	switch {
	case r.Account == ledger.Spot && r.Action == order.Enter:
		return e.spotEnter(qty)
	case r.Account == ledger.Spot:
		return e.spotExit(qty)
	case r.Action == order.Enter:
		return e.marginEnter(r.Direction, qty)
	default:
		return e.marginExit(r.Direction, qty)
	}
}

// quantity converts a percent request into a base quantity. Entries spend a
// share of the unlevered quote balance with the fee deducted so that 100% is
// affordable; exits close a share of the position held in the requested
// direction
func (e *Engine) quantity(r *order.Request) (decimal.Decimal, error) {
	if !r.IsPercent {
		return r.Amount, nil
	}
	if r.Action == order.Enter {
		quote, err := e.ledger.Projected(r.Account, ledger.Quote)
		if err != nil {
			return decimal.Zero, err
		}
		return gctmath.TruncateDiv(r.Amount.Mul(quote), e.tick.Price.Mul(one.Add(e.fee))), nil
	}
	held := decimal.Zero
	if book := e.lots[r.Account]; book.Direction() == r.Direction {
		held = book.Quantity()
	}
	q := r.Amount.Mul(held)
	if e.deductExitFee {
		q = gctmath.TruncateDiv(q, one.Add(e.fee))
	}
	return q, nil
}

// EntryQuantity returns the base quantity an entry of amount would open at
// the current tick price, converting percent amounts as Submit does
func (e *Engine) EntryQuantity(a ledger.Account, amount decimal.Decimal, isPercent bool) (decimal.Decimal, error) {
	if !e.started {
		return decimal.Zero, errNoTick
	}
	return e.quantity(&order.Request{Account: a, Action: order.Enter, Amount: amount, IsPercent: isPercent})
}

func (e *Engine) newLot(d order.Direction, q decimal.Decimal) position.Lot {
	return position.Lot{
		Quantity:   q,
		EntryPrice: e.tick.Price,
		FeeRate:    e.fee,
		Direction:  d,
		OpenedAt:   e.tick.Index,
	}
}

// spotEnter buys q paying q*price*(1+fee) quote
func (e *Engine) spotEnter(q decimal.Decimal) (order.Fill, error) {
	p := e.tick.Price
	cost := q.Mul(p).Mul(one.Add(e.fee))
	err := e.ledger.ReserveAll(
		ledger.Delta{Account: ledger.Spot, Asset: ledger.Quote, Amount: cost.Neg()},
		ledger.Delta{Account: ledger.Spot, Asset: ledger.Base, Amount: q},
	)
	if err != nil {
		return order.Fill{}, err
	}
	if err = e.lots[ledger.Spot].Add(e.newLot(order.Long, q)); err != nil {
		return order.Fill{}, err
	}
	return order.Fill{Price: p, Quantity: q, Fee: q.Mul(p).Mul(e.fee)}, nil
}

// spotExit sells q receiving q*price/(1+fee) quote
func (e *Engine) spotExit(q decimal.Decimal) (order.Fill, error) {
	p := e.tick.Price
	book := e.lots[ledger.Spot]
	closed, err := book.Preview(q, p, e.fee)
	if err != nil {
		return order.Fill{}, fmt.Errorf("%w: %w", ledger.ErrInsufficientFunds, err)
	}
	gain := gctmath.TruncateDiv(q.Mul(p), one.Add(e.fee))
	err = e.ledger.ReserveAll(
		ledger.Delta{Account: ledger.Spot, Asset: ledger.Base, Amount: q.Neg()},
		ledger.Delta{Account: ledger.Spot, Asset: ledger.Quote, Amount: gain},
	)
	if err != nil {
		return order.Fill{}, err
	}
	book.Apply(closed)
	return order.Fill{Price: p, Quantity: q, Fee: closed.ExitFee, RealisedPNL: closed.RealisedPNL}, nil
}

// openDeltas borrow the full cost, fees included, as debt and pledge
// cost/leverage of the free collateral
func (e *Engine) openDeltas(d order.Direction, q decimal.Decimal) []ledger.Delta {
	cost := q.Mul(e.tick.Price).Mul(one.Add(e.fee))
	base := q
	if d == order.Short {
		base = q.Neg()
	}
	return []ledger.Delta{
		{Account: ledger.Margin, Asset: ledger.Base, Amount: base},
		{Account: ledger.Margin, Asset: ledger.Debt, Amount: cost},
		{Account: ledger.Margin, Asset: ledger.Quote, Amount: gctmath.TruncateDiv(cost, e.ledger.MaximumLeverage()).Neg()},
	}
}

// closeDeltas repay the consumed lot cost, release its pledge and book the
// realised profit into the collateral
func (e *Engine) closeDeltas(c *position.Closed) []ledger.Delta {
	base := c.Quantity
	if c.Direction == order.Long {
		base = base.Neg()
	}
	release := gctmath.TruncateDiv(c.Cost, e.ledger.MaximumLeverage())
	return []ledger.Delta{
		{Account: ledger.Margin, Asset: ledger.Base, Amount: base},
		{Account: ledger.Margin, Asset: ledger.Debt, Amount: c.Cost.Neg()},
		{Account: ledger.Margin, Asset: ledger.Quote, Amount: release.Add(c.RealisedPNL)},
		{Account: ledger.Margin, Asset: ledger.Collateral, Amount: c.RealisedPNL},
	}
}

// marginEnter nets an opposing position first and opens the remainder in
// direction d. Both legs are settled together; only the opening leg has to
// be affordable, against the free collateral left after the close
func (e *Engine) marginEnter(d order.Direction, q decimal.Decimal) (order.Fill, error) {
	p := e.tick.Price
	book := e.lots[ledger.Margin]
	var (
		closing, opening []ledger.Delta
		closed           *position.Closed
		closeQty         = decimal.Zero
	)
	if !book.IsEmpty() && book.Direction() != d {
		closeQty = decimal.Min(q, book.Quantity())
		c, err := book.Preview(closeQty, p, e.fee)
		if err != nil {
			return order.Fill{}, err
		}
		closed = &c
		closing = e.closeDeltas(closed)
	}
	openQty := q.Sub(closeQty)
	if openQty.IsPositive() {
		opening = e.openDeltas(d, openQty)
	}
	if err := e.ledger.Settle(closing, opening...); err != nil {
		return order.Fill{}, err
	}

	fill := order.Fill{Price: p, Quantity: q, Fee: decimal.Zero, RealisedPNL: decimal.Zero}
	if closed != nil {
		book.Apply(*closed)
		fill.Fee = fill.Fee.Add(closed.ExitFee)
		fill.RealisedPNL = closed.RealisedPNL
	}
	if openQty.IsPositive() {
		if err := book.Add(e.newLot(d, openQty)); err != nil {
			return order.Fill{}, err
		}
		fill.Fee = fill.Fee.Add(openQty.Mul(p).Mul(e.fee))
	}
	return fill, nil
}

// marginExit closes q of the position held in direction d. A close is never
// refused for its realised loss
func (e *Engine) marginExit(d order.Direction, q decimal.Decimal) (order.Fill, error) {
	book := e.lots[ledger.Margin]
	if book.Direction() != d {
		return order.Fill{}, fmt.Errorf("%w: no %s margin position to exit", ledger.ErrInsufficientFunds, d)
	}
	closed, err := book.Preview(q, e.tick.Price, e.fee)
	if err != nil {
		return order.Fill{}, fmt.Errorf("%w: %w", ledger.ErrInsufficientFunds, err)
	}
	if err = e.ledger.Settle(e.closeDeltas(&closed)); err != nil {
		return order.Fill{}, err
	}
	book.Apply(closed)
	return order.Fill{Price: e.tick.Price, Quantity: q, Fee: closed.ExitFee, RealisedPNL: closed.RealisedPNL}, nil
}
