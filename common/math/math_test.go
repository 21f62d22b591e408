package math

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateDiv(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.3333333333333333", TruncateDiv(decimal.NewFromInt(1), decimal.NewFromInt(3)).String())
	assert.Equal(t, "0.6666666666666666", TruncateDiv(decimal.NewFromInt(2), decimal.NewFromInt(3)).String(), "TruncateDiv should never round up")
	assert.True(t, TruncateDiv(decimal.NewFromInt(50000), decimal.NewFromInt(2)).Equal(decimal.NewFromInt(25000)))
}

func TestDecimalPercentageChange(t *testing.T) {
	t.Parallel()
	_, err := DecimalPercentageChange(decimal.Zero, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, errZeroValue)

	resp, err := DecimalPercentageChange(decimal.NewFromInt(100), decimal.NewFromInt(110))
	require.NoError(t, err)
	assert.True(t, resp.Equal(decimal.NewFromInt(10)), "DecimalPercentageChange should return 10, got %s", resp)

	resp, err = DecimalPercentageChange(decimal.NewFromInt(200), decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.True(t, resp.Equal(decimal.NewFromInt(-25)), "DecimalPercentageChange should return -25, got %s", resp)
}

func TestDecimalArithmeticAverage(t *testing.T) {
	t.Parallel()
	assert.True(t, DecimalArithmeticAverage(nil).IsZero())
	avg := DecimalArithmeticAverage([]decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.NewFromInt(6)})
	assert.True(t, avg.Equal(decimal.NewFromInt(3)))
}

func TestDecimalSampleStandardDeviation(t *testing.T) {
	t.Parallel()
	assert.True(t, DecimalSampleStandardDeviation([]decimal.Decimal{decimal.NewFromInt(1)}).IsZero())
	vals := []decimal.Decimal{
		decimal.NewFromInt(2), decimal.NewFromInt(4), decimal.NewFromInt(4), decimal.NewFromInt(4),
		decimal.NewFromInt(5), decimal.NewFromInt(5), decimal.NewFromInt(7), decimal.NewFromInt(9),
	}
	// sample variance 32/7
	assert.Equal(t, "2.13809", DecimalSampleStandardDeviation(vals).Round(5).String())
}

func TestDecimalSharpeRatio(t *testing.T) {
	t.Parallel()
	assert.True(t, DecimalSharpeRatio(nil, decimal.Zero).IsZero())
	flat := []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1)}
	assert.True(t, DecimalSharpeRatio(flat, decimal.Zero).IsZero(), "zero deviation should return zero")
	vals := []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(3)}
	// mean 2, sample std dev sqrt(2)
	assert.Equal(t, "1.4142", DecimalSharpeRatio(vals, decimal.Zero).Round(4).String())
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()
	assert.True(t, MaxDrawdown(nil).Amount.IsZero())

	rising := []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.NewFromInt(3)}
	assert.True(t, MaxDrawdown(rising).Amount.IsZero())

	vals := []decimal.Decimal{
		decimal.NewFromInt(100), decimal.NewFromInt(120), decimal.NewFromInt(90),
		decimal.NewFromInt(130), decimal.NewFromInt(80), decimal.NewFromInt(140),
	}
	dd := MaxDrawdown(vals)
	assert.True(t, dd.Amount.Equal(decimal.NewFromInt(50)), "MaxDrawdown should be 50, got %s", dd.Amount)
	assert.True(t, dd.Highest.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, 3, dd.HighestIndex)
	assert.True(t, dd.Lowest.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 4, dd.LowestIndex)
}
