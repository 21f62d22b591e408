package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/papertrader/engine"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/order"
	"github.com/thrasher-corp/papertrader/runner"
)

func TestOnOrderResult(t *testing.T) {
	t.Parallel()
	c := New("run", "rsi")
	req := order.Request{Account: ledger.Margin, Direction: order.Short, Action: order.Enter, Amount: decimal.NewFromInt(2)}
	c.OnOrderResult(order.NewFilled(0, 1, req, order.Fill{
		Price:    decimal.NewFromInt(100),
		Quantity: decimal.NewFromInt(2),
		Fee:      decimal.NewFromFloat(0.5),
	}))
	c.OnOrderResult(order.NewRejected(0, 1, req, ledger.ErrInsufficientFunds))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("margin", "short", "enter", "filled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("margin", "short", "enter", "rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.volume.WithLabelValues("margin", "short")))
	assert.Equal(t, 0.5, testutil.ToFloat64(c.fees))
}

func TestOnTickOutcome(t *testing.T) {
	t.Parallel()
	c := New("run", "rsi")
	c.OnLiquidation(engine.Liquidation{})
	c.OnTickOutcome(&runner.TickOutcome{
		Tick:   feed.Tick{Index: 7},
		Equity: decimal.NewFromInt(99000),
		NetPNL: decimal.NewFromInt(-1000),
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.liquidations))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ticks))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.tickIndex))
	assert.Equal(t, 99000.0, testutil.ToFloat64(c.equity))
	assert.Equal(t, -1000.0, testutil.ToFloat64(c.netPNL))
}

func TestHandler(t *testing.T) {
	t.Parallel()
	c := New("abc", "dollarcostaverage")
	c.OnTickOutcome(&runner.TickOutcome{Tick: feed.Tick{Index: 1}})
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `papertrader_ticks_total{run_id="abc",strategy="dollarcostaverage"} 1`), body)
}

func TestServe(t *testing.T) {
	t.Parallel()
	c := New("abc", "rsi")
	assert.ErrorIs(t, c.Serve(context.Background(), ""), errEmptyAddress)
}
