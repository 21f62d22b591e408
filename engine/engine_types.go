package engine

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/order"
	"github.com/thrasher-corp/papertrader/position"
)

var (
	errNilLedger        = errors.New("nil ledger")
	errInvalidFee       = errors.New("trading fee must be between 0 and 1")
	errInvalidThreshold = errors.New("liquidation threshold must be between 0 and 1")
	errNoTick           = errors.New("no tick has begun")
	errTickOutOfOrder   = errors.New("tick does not follow the current tick")
	errInvalidPrice     = errors.New("tick price must be positive")
)

// Settings configure an Engine. A zero LiquidationThreshold defaults to 1,
// liquidating once losses exceed the whole collateral. When DeductExitFee is
// set percent exits are deflated by the fee like percent entries
type Settings struct {
	TradingFee           decimal.Decimal
	IncludeFee           bool
	LiquidationThreshold decimal.Decimal
	DeductExitFee        bool
}

// Liquidation records a forced close of every margin lot
type Liquidation struct {
	Tick        int64
	Price       decimal.Decimal
	Direction   order.Direction
	Quantity    decimal.Decimal
	Loss        decimal.Decimal
	Collateral  decimal.Decimal
	RealisedPNL decimal.Decimal
}

// Observer is notified of every order result and liquidation
type Observer interface {
	OnOrderResult(order.Result)
	OnLiquidation(Liquidation)
}

// Engine turns trading intents into ledger reservations at the current tick
// price. It owns the open order book and the lot books of both accounts
type Engine struct {
	ledger        *ledger.Ledger
	fee           decimal.Decimal
	threshold     decimal.Decimal
	deductExitFee bool

	tick    feed.Tick
	started bool

	book *order.Book
	lots map[ledger.Account]*position.Book

	realisedPNL     decimal.Decimal
	tickRealisedPNL decimal.Decimal

	observer Observer
	fatal    error
}
