package runner

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/currency"
	"github.com/thrasher-corp/papertrader/engine"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/order"
)

var (
	// ErrNilStrategy is returned when a runner is built without a strategy
	ErrNilStrategy = errors.New("nil strategy")
	// ErrStopped is returned by Step after a fatal error ended the run
	ErrStopped = errors.New("runner stopped")

	errNilFeed        = errors.New("nil price feed")
	errNilEngine      = errors.New("nil order engine")
	errNilLedger      = errors.New("nil ledger")
	errTickMismatch   = errors.New("ledger and feed do not open on the same tick")
	errInvalidPNLMode = errors.New("invalid pnl mode")
)

// PNLMode selects what a tick's profit and loss measures
type PNLMode uint8

// PNL modes
const (
	// Realised counts only profit booked by closes during the tick
	Realised PNLMode = iota
	// MarkToMarket counts the change in equity across the tick
	MarkToMarket
)

// Strategy is the user code invoked once per tick. It trades through the
// engine held by the TickContext. A returned error stops the run
type Strategy interface {
	Name() string
	OnTick(context.Context, *TickContext) error
}

// Balances is the read only view of the ledger given to strategies. Trades
// must go through the engine so lots and affordability stay consistent
type Balances interface {
	Pair() currency.Pair
	CurrentTick() int64
	Balance(ledger.Account, ledger.Asset) (decimal.Decimal, error)
	Pending(ledger.Account, ledger.Asset) (decimal.Decimal, error)
	Projected(ledger.Account, ledger.Asset) (decimal.Decimal, error)
	Available(ledger.Account, ledger.Asset) (decimal.Decimal, error)
	ValueAt(ledger.Account, ledger.Asset, int64) (decimal.Decimal, error)
	Series(ledger.Account, ledger.Asset) ([]decimal.Decimal, error)
}

// TickContext is handed to the strategy. Prices holds every known price up
// to and including the current tick and must not be modified
type TickContext struct {
	Tick   feed.Tick
	Prices []decimal.Decimal
	Engine *engine.Engine
	Ledger Balances
}

// Observer is notified after every committed tick. Observers that also
// implement engine.Observer receive every order result and liquidation
type Observer interface {
	OnTickOutcome(*TickOutcome)
}

// Settings configure a Runner
type Settings struct {
	PNLMode   PNLMode
	Observers []Observer
}

// TickOutcome describes a single committed tick
type TickOutcome struct {
	Tick        feed.Tick
	Orders      []order.Result
	Liquidation *engine.Liquidation
	PNL         decimal.Decimal
	NetPNL      decimal.Decimal
	Equity      decimal.Decimal
}

// Results are the output series of a run, one element per committed tick
type Results struct {
	RunID          uuid.UUID
	Strategy       string
	Pair           currency.Pair
	PNLMode        PNLMode
	StartingEquity decimal.Decimal
	Ticks          []int64
	PNL            []decimal.Decimal
	NetPNL         []decimal.Decimal
	Equity         []decimal.Decimal
	Liquidations   []engine.Liquidation
	Filled         int
	Opened         int
	Rejected       int
}

// Runner replays a feed tick by tick against one ledger and engine. It is
// not safe for concurrent use; parallel runs each need their own Runner
type Runner struct {
	id        uuid.UUID
	feed      feed.Feed
	engine    *engine.Engine
	ledger    *ledger.Ledger
	strategy  Strategy
	pnlMode   PNLMode
	observers []Observer

	prices         []decimal.Decimal
	current        *TickOutcome
	previousEquity decimal.Decimal
	netPNL         decimal.Decimal
	results        Results
	err            error
}
