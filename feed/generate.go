package feed

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var errInvalidWave = errors.New("invalid sine wave parameters")

// SineWave generates n points starting at start, spaced by interval, whose
// price oscillates around mid by amplitude once every cycle points. Prices
// are rounded to 8 decimal places
func SineWave(start time.Time, interval Interval, n, cycle int, mid, amplitude decimal.Decimal) ([]Point, error) {
	if n <= 0 || cycle <= 0 || !mid.IsPositive() || amplitude.IsNegative() || amplitude.GreaterThanOrEqual(mid) {
		return nil, errInvalidWave
	}
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	resp := make([]Point, n)
	for i := range resp {
		s := math.Sin(2 * math.Pi * float64(i) / float64(cycle))
		resp[i] = Point{
			Timestamp: start.Add(time.Duration(i) * interval.Duration()),
			Price:     mid.Add(amplitude.Mul(decimal.NewFromFloat(s))).Round(8),
		}
	}
	return resp, nil
}
