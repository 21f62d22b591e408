package feed

import (
	"fmt"

	"github.com/shopspring/decimal"
	gctmath "github.com/thrasher-corp/papertrader/common/math"
)

// NewSeries validates points and returns a feed positioned on the opening
// tick at startIndex
func NewSeries(points []Point, startIndex int64) (*Series, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	if startIndex < 0 || startIndex >= int64(len(points)) {
		return nil, fmt.Errorf("%w: %d of %d points", errInvalidStartIndex, startIndex, len(points))
	}
	for i := range points {
		if !points[i].Price.IsPositive() {
			return nil, fmt.Errorf("%w: point %d price %s", errInvalidPrice, i, points[i].Price)
		}
		if i > 0 && !points[i].Timestamp.After(points[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: point %d at %v", errOutOfOrder, i, points[i].Timestamp)
		}
	}
	s := &Series{
		points: points,
		cursor: int(startIndex),
	}
	s.current = s.tickAt(s.cursor)
	return s, nil
}

func (s *Series) tickAt(i int) Tick {
	t := Tick{
		Index:     int64(i),
		Timestamp: s.points[i].Timestamp,
		Price:     s.points[i].Price,
	}
	if i > 0 {
		// prices are validated positive so the change is always defined
		t.PercentChange, _ = gctmath.DecimalPercentageChange(s.points[i-1].Price, s.points[i].Price)
	}
	return t
}

// Next advances the cursor by one point and returns the new current tick
func (s *Series) Next() (Tick, error) {
	if s.cursor+1 >= len(s.points) {
		return Tick{}, ErrFeedExhausted
	}
	s.cursor++
	s.current = s.tickAt(s.cursor)
	return s.current, nil
}

// Current returns the current tick, the opening tick before the first Next
func (s *Series) Current() Tick {
	return s.current
}

// CurrentPrice returns the price of the current tick
func (s *Series) CurrentPrice() decimal.Decimal {
	return s.current.Price
}

// Remaining returns how many ticks are left to replay
func (s *Series) Remaining() int {
	return len(s.points) - 1 - s.cursor
}

// Len returns the number of points in the series
func (s *Series) Len() int {
	return len(s.points)
}

// Closes returns the prices from the first point up to and including the
// current tick. Indicators use it as their input history
func (s *Series) Closes() []decimal.Decimal {
	resp := make([]decimal.Decimal, s.cursor+1)
	for i := range resp {
		resp[i] = s.points[i].Price
	}
	return resp
}
