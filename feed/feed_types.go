package feed

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrFeedExhausted is returned by Next once every point has been replayed
	ErrFeedExhausted = errors.New("price feed exhausted")
	// ErrNoData is returned when a feed is built without points
	ErrNoData = errors.New("no price data")

	errInvalidStartIndex = errors.New("invalid start index")
	errInvalidPrice      = errors.New("price must be greater than zero")
	errOutOfOrder        = errors.New("points must be in ascending time order")
)

// Tick is a single immutable price observation handed to the ledger, the
// order engine and the strategy. PercentChange is the change from the
// previous point in percent, zero for the first point of a series
type Tick struct {
	Index         int64
	Timestamp     time.Time
	Price         decimal.Decimal
	PercentChange decimal.Decimal
}

// Point is a stored price observation
type Point struct {
	Timestamp time.Time
	Price     decimal.Decimal
}

// Feed supplies ticks in strictly increasing index order
type Feed interface {
	Next() (Tick, error)
	Current() Tick
	CurrentPrice() decimal.Decimal
}

// Series replays an in-memory slice of points. The point at the start index
// is the opening tick; Next begins with the point after it
type Series struct {
	points  []Point
	cursor  int
	current Tick
}
