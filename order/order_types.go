package order

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/ledger"
)

var (
	// ErrInvalidOrderParameters is returned for a request with an unknown
	// direction or action, a non-positive amount, a negative limit price or a
	// short on the spot account
	ErrInvalidOrderParameters = errors.New("invalid order parameters")
	// ErrOrderNotFound is returned when cancelling an id that is not open
	ErrOrderNotFound = errors.New("order not found")
)

// Direction is the side of a position
type Direction uint8

// Directions
const (
	UnknownDirection Direction = iota
	Long
	Short
)

// Action states whether an order opens or closes a position
type Action uint8

// Actions
const (
	UnknownAction Action = iota
	Enter
	Exit
)

// Status is the terminal state of a submitted order
type Status uint8

// Statuses
const (
	UnknownStatus Status = iota
	// Filled orders executed at the tick price
	Filled
	// Opened orders are resting limit orders awaiting their trigger price
	Opened
	// Rejected orders changed nothing; Result.Err holds the reason
	Rejected
)

// Request is a trading intent. A zero LimitPrice is a market order. When
// IsPercent is set Amount is a fraction, 1.5 being 150%, converted to a base
// quantity at execution time
type Request struct {
	Account    ledger.Account  `json:"account"`
	Direction  Direction       `json:"direction"`
	Action     Action          `json:"action"`
	Amount     decimal.Decimal `json:"amount"`
	IsPercent  bool            `json:"isPercent"`
	LimitPrice decimal.Decimal `json:"limitPrice"`
}

// Fill holds the execution details of a filled order. Fee is the quote
// amount lost to the trading fee and RealisedPNL is non-zero when the fill
// closed lots
type Fill struct {
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	Fee         decimal.Decimal
	RealisedPNL decimal.Decimal
}

// Result is the outcome of a submission or of a triggered open order
type Result struct {
	Status  Status
	ID      uint64
	Tick    int64
	Request Request
	Fill    Fill
	Err     error
}

// Open is a resting limit order
type Open struct {
	ID        uint64
	Request   Request
	CreatedAt int64
}

// Book holds open orders. IDs start at 1 and are never reused
type Book struct {
	lastID uint64
	orders []Open
}
