package order

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/ledger"
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	}
	return "unknown"
}

// ParseDirection returns the direction for its name
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return Long, nil
	case "short", "sell":
		return Short, nil
	}
	return UnknownDirection, fmt.Errorf("%w: direction %q", ErrInvalidOrderParameters, s)
}

// Opposite returns the other side
func (d Direction) Opposite() Direction {
	switch d {
	case Long:
		return Short
	case Short:
		return Long
	}
	return UnknownDirection
}

// Sign returns 1 for long and -1 for short
func (d Direction) Sign() decimal.Decimal {
	if d == Short {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// MarshalJSON writes the direction name
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads a direction name
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (a Action) String() string {
	switch a {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// ParseAction returns the action for its name
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enter":
		return Enter, nil
	case "exit":
		return Exit, nil
	}
	return UnknownAction, fmt.Errorf("%w: action %q", ErrInvalidOrderParameters, s)
}

// MarshalJSON writes the action name
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON reads an action name
func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (s Status) String() string {
	switch s {
	case Filled:
		return "filled"
	case Opened:
		return "opened"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Validate checks the request can be executed. An unknown account is a
// programming error and returns ledger.ErrUnknownAccount
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidOrderParameters)
	}
	switch r.Account {
	case ledger.Spot, ledger.Margin:
	default:
		return fmt.Errorf("%w: %d", ledger.ErrUnknownAccount, r.Account)
	}
	if r.Direction != Long && r.Direction != Short {
		return fmt.Errorf("%w: unknown direction", ErrInvalidOrderParameters)
	}
	if r.Action != Enter && r.Action != Exit {
		return fmt.Errorf("%w: unknown action", ErrInvalidOrderParameters)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount %s must be positive", ErrInvalidOrderParameters, r.Amount)
	}
	if r.LimitPrice.IsNegative() {
		return fmt.Errorf("%w: limit price %s cannot be negative", ErrInvalidOrderParameters, r.LimitPrice)
	}
	if r.Account == ledger.Spot && r.Direction == Short {
		return fmt.Errorf("%w: the exchange account cannot short", ErrInvalidOrderParameters)
	}
	return nil
}

// IsLimit reports whether the request carries a limit price
func (r *Request) IsLimit() bool {
	return r.LimitPrice.IsPositive()
}

// Triggered reports whether the request executes at price. Market orders
// always trigger. Enter long and exit short wait for the price to fall to
// the limit, exit long and enter short wait for it to rise to the limit
func (r *Request) Triggered(price decimal.Decimal) bool {
	if !r.IsLimit() {
		return true
	}
	if (r.Direction == Long) == (r.Action == Enter) {
		return price.LessThanOrEqual(r.LimitPrice)
	}
	return price.GreaterThanOrEqual(r.LimitPrice)
}

func (r *Request) String() string {
	amount := r.Amount.String()
	if r.IsPercent {
		amount = r.Amount.Mul(decimal.NewFromInt(100)).String() + "%"
	}
	kind := "market"
	if r.IsLimit() {
		kind = "limit " + r.LimitPrice.String()
	}
	return fmt.Sprintf("%s %s %s %s %s", r.Account, r.Action, r.Direction, amount, kind)
}

// NewFilled returns a Filled result
func NewFilled(id uint64, tick int64, r Request, f Fill) Result {
	return Result{Status: Filled, ID: id, Tick: tick, Request: r, Fill: f}
}

// NewOpened returns an Opened result
func NewOpened(id uint64, tick int64, r Request) Result {
	return Result{Status: Opened, ID: id, Tick: tick, Request: r}
}

// NewRejected returns a Rejected result
func NewRejected(id uint64, tick int64, r Request, err error) Result {
	return Result{Status: Rejected, ID: id, Tick: tick, Request: r, Err: err}
}

func (r Result) String() string {
	switch r.Status {
	case Filled:
		return fmt.Sprintf("tick %d %s filled %s at %s fee %s pnl %s",
			r.Tick, r.Request.String(), r.Fill.Quantity, r.Fill.Price, r.Fill.Fee, r.Fill.RealisedPNL)
	case Opened:
		return fmt.Sprintf("tick %d %s opened as order %d", r.Tick, r.Request.String(), r.ID)
	case Rejected:
		return fmt.Sprintf("tick %d %s rejected: %v", r.Tick, r.Request.String(), r.Err)
	}
	return "unknown result"
}
