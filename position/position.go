// Package position keeps the FIFO lots behind an account's base balance and
// prices realised and unrealised profit and loss
package position

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/order"
)

var (
	// ErrInsufficientQuantity is returned when closing more than the lots hold
	ErrInsufficientQuantity = errors.New("insufficient position quantity")

	errInvalidLot       = errors.New("lot quantity and entry price must be positive")
	errDirectionMixed   = errors.New("lot direction differs from the open position")
	errInvalidDirection = errors.New("invalid direction")
)

var one = decimal.NewFromInt(1)

// Lot is a single entry into a position
type Lot struct {
	Quantity   decimal.Decimal
	EntryPrice decimal.Decimal
	FeeRate    decimal.Decimal
	Direction  order.Direction
	OpenedAt   int64
}

// Cost is the quote amount paid to open the lot, fees included
func (l *Lot) Cost() decimal.Decimal {
	return l.Quantity.Mul(l.EntryPrice).Mul(one.Add(l.FeeRate))
}

// Closed summarises the lots consumed by a close. Cost is the consumed entry
// cost fees included, ExitFee is the quote lost to the exit fee
type Closed struct {
	Direction   order.Direction
	Quantity    decimal.Decimal
	Cost        decimal.Decimal
	ExitFee     decimal.Decimal
	RealisedPNL decimal.Decimal
	remaining   []Lot
}

// Book is a FIFO queue of lots. Every lot shares the same direction; an
// opposing entry must close the position first
type Book struct {
	lots []Lot
}

// Add appends a lot to the back of the queue
func (b *Book) Add(l Lot) error {
	if !l.Quantity.IsPositive() || !l.EntryPrice.IsPositive() {
		return fmt.Errorf("%w: %s at %s", errInvalidLot, l.Quantity, l.EntryPrice)
	}
	if l.Direction != order.Long && l.Direction != order.Short {
		return errInvalidDirection
	}
	if len(b.lots) > 0 && b.lots[0].Direction != l.Direction {
		return fmt.Errorf("%w: %s onto %s", errDirectionMixed, l.Direction, b.lots[0].Direction)
	}
	b.lots = append(b.lots, l)
	return nil
}

// Direction returns the side of the open position, UnknownDirection when flat
func (b *Book) Direction() order.Direction {
	if len(b.lots) == 0 {
		return order.UnknownDirection
	}
	return b.lots[0].Direction
}

// Quantity returns the absolute size of the position
func (b *Book) Quantity() decimal.Decimal {
	q := decimal.Zero
	for i := range b.lots {
		q = q.Add(b.lots[i].Quantity)
	}
	return q
}

// Cost returns the entry cost of every open lot, fees included
func (b *Book) Cost() decimal.Decimal {
	c := decimal.Zero
	for i := range b.lots {
		c = c.Add(b.lots[i].Cost())
	}
	return c
}

// Lots returns a copy of the queue
func (b *Book) Lots() []Lot {
	return slices.Clone(b.lots)
}

// IsEmpty reports whether the position is flat
func (b *Book) IsEmpty() bool {
	return len(b.lots) == 0
}

// PNL returns the profit of closing quantity of a lot at exitPrice paying
// exitFee. Both the entry fee and the exit fee are deducted
func PNL(direction order.Direction, quantity, entryPrice, entryFee, exitPrice, exitFee decimal.Decimal) decimal.Decimal {
	move := exitPrice.Sub(entryPrice).Mul(quantity).Mul(direction.Sign())
	entryCost := quantity.Mul(entryPrice).Mul(entryFee)
	return move.Sub(entryCost).Sub(ExitFee(quantity, exitPrice, exitFee))
}

// ExitFee returns the quote lost when the proceeds of an exit are deflated by
// the fee
func ExitFee(quantity, exitPrice, fee decimal.Decimal) decimal.Decimal {
	notional := quantity.Mul(exitPrice)
	return notional.Sub(notional.Div(one.Add(fee)))
}

// Preview prices closing quantity FIFO at exitPrice without changing the
// book. Apply the returned Closed to consume the lots
func (b *Book) Preview(quantity, exitPrice, exitFee decimal.Decimal) (Closed, error) {
	if total := b.Quantity(); quantity.GreaterThan(total) {
		return Closed{}, fmt.Errorf("%w: closing %s of %s", ErrInsufficientQuantity, quantity, total)
	}
	c := Closed{
		Direction: b.Direction(),
		Quantity:  quantity,
		ExitFee:   ExitFee(quantity, exitPrice, exitFee),
	}
	left := quantity
	i := 0
	for ; i < len(b.lots) && left.IsPositive(); i++ {
		lot := b.lots[i]
		take := decimal.Min(left, lot.Quantity)
		slice := lot
		slice.Quantity = take
		c.Cost = c.Cost.Add(slice.Cost())
		c.RealisedPNL = c.RealisedPNL.Add(PNL(lot.Direction, take, lot.EntryPrice, lot.FeeRate, exitPrice, exitFee))
		left = left.Sub(take)
		if take.LessThan(lot.Quantity) {
			lot.Quantity = lot.Quantity.Sub(take)
			c.remaining = append([]Lot{lot}, b.lots[i+1:]...)
			return c, nil
		}
	}
	c.remaining = slices.Clone(b.lots[i:])
	return c, nil
}

// Apply consumes the lots priced by Preview
func (b *Book) Apply(c Closed) {
	b.lots = c.remaining
}

// UnrealisedPNL returns the profit of closing every lot at price
func (b *Book) UnrealisedPNL(price, exitFee decimal.Decimal) decimal.Decimal {
	pnl := decimal.Zero
	for i := range b.lots {
		l := &b.lots[i]
		pnl = pnl.Add(PNL(l.Direction, l.Quantity, l.EntryPrice, l.FeeRate, price, exitFee))
	}
	return pnl
}
