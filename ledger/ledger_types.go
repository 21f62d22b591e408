package ledger

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/currency"
)

var (
	// ErrInsufficientFunds is returned when a reservation would take a
	// non-negative balance below zero
	ErrInsufficientFunds = errors.New("could not afford trade")
	// ErrUnknownAccount is returned for an account the ledger does not hold
	ErrUnknownAccount = errors.New("unknown account")
	// ErrUnknownAsset is returned for an asset the account does not hold
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrTickOutOfOrder is returned when committing a tick that is not after
	// the last committed tick
	ErrTickOutOfOrder = errors.New("tick out of order")
	// ErrInvariantViolation is returned when a commit leaves a balance that can
	// never be negative below zero. It indicates a bug and must stop a run
	ErrInvariantViolation = errors.New("ledger invariant violation")

	errInvalidLeverage   = errors.New("maximum leverage must be at least 1")
	errNegativeFunding   = errors.New("initial funding cannot be negative")
	errTickBeforeOpening = errors.New("tick is before the opening tick")
	errTickNotCommitted  = errors.New("tick has not been committed")
)

// Account identifies a wallet held by the ledger
type Account uint8

// Accounts
const (
	UnknownAccount Account = iota
	// Spot is the exchange wallet, owned assets only
	Spot
	// Margin permits borrowing against collateral for leveraged long or short
	// positions
	Margin
)

// Asset identifies a balance within an account
type Asset uint8

// Assets
const (
	UnknownAsset Asset = iota
	// Quote is the quote currency of the pair. On margin it is the free
	// collateral not pledged against open positions
	Quote
	// Base is the base currency of the pair. On margin it is the signed net
	// position, negative when short
	Base
	// Collateral is the quote denominated equity of the margin account
	Collateral
	// Debt is the quote denominated cost of open margin lots
	Debt
)

// Key addresses a single balance series
type Key struct {
	Account Account
	Asset   Asset
}

// Delta is a signed change to a single balance
type Delta struct {
	Account Account
	Asset   Asset
	Amount  decimal.Decimal
}

// Entry is a committed balance value. A series only holds an entry for the
// ticks in which the balance changed
type Entry struct {
	Tick  int64
	Value decimal.Decimal
}

// Settings configure a new Ledger
type Settings struct {
	Pair             currency.Pair
	OpeningTick      int64
	MaximumLeverage  decimal.Decimal
	SpotQuote        decimal.Decimal
	MarginCollateral decimal.Decimal
}

// Snapshot holds every committed balance at a tick
type Snapshot struct {
	Tick     int64
	Balances map[Key]decimal.Decimal
}

// Ledger owns the balances and balance history of the spot and margin
// accounts. Trades reserve signed deltas into a pending accumulator which
// only becomes visible to balance readers once the tick is committed
type Ledger struct {
	m               sync.RWMutex
	pair            currency.Pair
	maximumLeverage decimal.Decimal
	openingTick     int64
	currentTick     int64
	history         map[Key][]Entry
	pending         map[Key]decimal.Decimal
}

// keys lists every balance the ledger holds in a stable order
var keys = []Key{
	{Spot, Quote},
	{Spot, Base},
	{Margin, Quote},
	{Margin, Base},
	{Margin, Collateral},
	{Margin, Debt},
}
