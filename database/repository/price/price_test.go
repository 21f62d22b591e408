package price

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/papertrader/currency"
	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/database/drivers"
	"github.com/thrasher-corp/papertrader/feed"
)

const testExchange = "Bitfinex"

var testPair = currency.NewPair(currency.BTC, currency.USDT)

func newTestInstance(t *testing.T) *database.Instance {
	t.Helper()
	i, err := database.NewInstance(&database.Config{
		Enabled:           true,
		Driver:            database.DBSQLite3,
		ConnectionDetails: database.ConnectionDetails{Database: "prices.db"},
	}, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, drivers.Connect(i), "Connect must not error")
	t.Cleanup(func() {
		assert.NoError(t, i.CloseConnection())
	})
	require.NoError(t, CreateTable(context.Background(), i), "CreateTable must not error")
	return i
}

func TestInsertAndSeries(t *testing.T) {
	t.Parallel()
	i := newTestInstance(t)
	ctx := context.Background()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	points, err := feed.SineWave(start, feed.FiveMin, 12, 6, decimal.NewFromInt(20000), decimal.NewFromInt(500))
	require.NoError(t, err)

	assert.ErrorIs(t, Insert(ctx, i, "", testPair, points), errInvalidInput)
	assert.ErrorIs(t, Insert(ctx, i, testExchange, testPair, nil), errNoPoints)
	require.NoError(t, Insert(ctx, i, testExchange, testPair, points), "Insert must not error")
	require.NoError(t, CreateTable(ctx, i), "CreateTable should be idempotent")

	resp, err := Series(ctx, i, "bitfinex", testPair, start, start.Add(time.Hour))
	require.NoError(t, err, "Series must not error")
	require.Len(t, resp, len(points))
	for x := range resp {
		assert.True(t, resp[x].Timestamp.Equal(points[x].Timestamp))
		assert.True(t, resp[x].Price.Equal(points[x].Price), "price %d should round trip exactly", x)
	}

	resp, err = Series(ctx, i, testExchange, testPair, start.Add(10*time.Minute), start.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Len(t, resp, 3, "the range should be inclusive")

	_, err = Series(ctx, i, testExchange, currency.NewPair(currency.ETH, currency.USDT), start, start.Add(time.Hour))
	assert.ErrorIs(t, err, feed.ErrNoData)
	_, err = Series(ctx, i, testExchange, testPair, start.Add(time.Hour), start)
	assert.ErrorIs(t, err, errInvalidInput)
}

func TestInsertReplaces(t *testing.T) {
	t.Parallel()
	i := newTestInstance(t)
	ctx := context.Background()
	ts := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Insert(ctx, i, testExchange, testPair, []feed.Point{{Timestamp: ts, Price: decimal.NewFromInt(1)}}))
	require.NoError(t, Insert(ctx, i, testExchange, testPair, []feed.Point{{Timestamp: ts, Price: decimal.RequireFromString("2.123456789012")}}))
	resp, err := Series(ctx, i, testExchange, testPair, ts, ts)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "2.123456789012", resp[0].Price.String())

	n, err := Delete(ctx, i, testExchange, testPair)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = Series(ctx, i, testExchange, testPair, ts, ts)
	assert.ErrorIs(t, err, feed.ErrNoData)
}

func TestNotConnected(t *testing.T) {
	t.Parallel()
	i, err := database.NewInstance(&database.Config{Driver: database.DBSQLite3}, "")
	require.NoError(t, err)
	assert.ErrorIs(t, CreateTable(context.Background(), i), database.ErrFailedToConnect)
}
