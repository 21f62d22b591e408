package math

import (
	"errors"
	gomath "math"

	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of decimal places kept when dividing
// monetary amounts
const DivisionPrecision = 16

var (
	errZeroValue = errors.New("cannot calculate with zero value")

	oneHundred = decimal.NewFromInt(100)
)

// TruncateDiv divides a by b and truncates the quotient to DivisionPrecision
// decimal places. Truncation never rounds an amount up, so a computed
// affordable quantity stays affordable
func TruncateDiv(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, DivisionPrecision)
	return q
}

// DecimalPercentageChange returns the percentage change between two values
func DecimalPercentageChange(priceThen, priceNow decimal.Decimal) (decimal.Decimal, error) {
	if priceThen.IsZero() {
		return decimal.Zero, errZeroValue
	}
	return priceNow.Sub(priceThen).Div(priceThen).Mul(oneHundred), nil
}

// DecimalArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func DecimalArithmeticAverage(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}

// DecimalSampleStandardDeviation measures the dispersion of a dataset
// relative to its mean
func DecimalSampleStandardDeviation(values []decimal.Decimal) decimal.Decimal {
	if len(values) <= 1 {
		return decimal.Zero
	}
	mean := DecimalArithmeticAverage(values)
	combined := decimal.Zero
	for i := range values {
		d := values[i].Sub(mean)
		combined = combined.Add(d.Mul(d))
	}
	variance := combined.Div(decimal.NewFromInt(int64(len(values) - 1)))
	f, _ := variance.Float64()
	return decimal.NewFromFloat(gomath.Sqrt(f))
}

// DecimalSharpeRatio returns the sharpe ratio of a series of per tick
// movements compared to a risk-free rate
func DecimalSharpeRatio(movementPerTick []decimal.Decimal, riskFreeRate decimal.Decimal) decimal.Decimal {
	if len(movementPerTick) <= 1 {
		return decimal.Zero
	}
	excessReturns := make([]decimal.Decimal, len(movementPerTick))
	for i := range movementPerTick {
		excessReturns[i] = movementPerTick[i].Sub(riskFreeRate)
	}
	standardDeviation := DecimalSampleStandardDeviation(excessReturns)
	if standardDeviation.IsZero() {
		return decimal.Zero
	}
	return DecimalArithmeticAverage(movementPerTick).Sub(riskFreeRate).Div(standardDeviation)
}

// Drawdown holds the deepest peak to trough fall of a value series
type Drawdown struct {
	Highest      decimal.Decimal
	HighestIndex int
	Lowest       decimal.Decimal
	LowestIndex  int
	Amount       decimal.Decimal
}

// MaxDrawdown walks a value series and returns its largest peak to trough
// decline. An always increasing series has a zero drawdown
func MaxDrawdown(values []decimal.Decimal) Drawdown {
	var resp Drawdown
	if len(values) == 0 {
		return resp
	}
	peak, peakIndex := values[0], 0
	resp.Highest, resp.Lowest = values[0], values[0]
	for i := range values {
		if values[i].GreaterThan(peak) {
			peak, peakIndex = values[i], i
		}
		if fall := peak.Sub(values[i]); fall.GreaterThan(resp.Amount) {
			resp = Drawdown{
				Highest:      peak,
				HighestIndex: peakIndex,
				Lowest:       values[i],
				LowestIndex:  i,
				Amount:       fall,
			}
		}
	}
	return resp
}
