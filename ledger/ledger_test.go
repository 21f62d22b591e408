package ledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/papertrader/currency"
)

var (
	fiftyThousand = decimal.NewFromInt(50000)
	two           = decimal.NewFromInt(2)
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(Settings{
		Pair:             currency.NewPair(currency.BTC, currency.USDT),
		MaximumLeverage:  two,
		SpotQuote:        fiftyThousand,
		MarginCollateral: fiftyThousand,
	})
	require.NoError(t, err, "New must not error")
	return l
}

func requireBalance(t *testing.T, l *Ledger, a Account, asset Asset, exp decimal.Decimal) {
	t.Helper()
	v, err := l.Balance(a, asset)
	require.NoError(t, err, "Balance must not error")
	assert.Truef(t, v.Equal(exp), "%s/%s balance should be %s, got %s", a, asset, exp, v)
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(Settings{})
	assert.ErrorIs(t, err, currency.ErrCurrencyPairEmpty)

	pair := currency.NewPair(currency.BTC, currency.USDT)
	_, err = New(Settings{Pair: pair, MaximumLeverage: decimal.NewFromFloat(0.5)})
	assert.ErrorIs(t, err, errInvalidLeverage)

	_, err = New(Settings{Pair: pair, MaximumLeverage: two, SpotQuote: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, errNegativeFunding)

	l := newTestLedger(t)
	requireBalance(t, l, Spot, Quote, fiftyThousand)
	requireBalance(t, l, Spot, Base, decimal.Zero)
	requireBalance(t, l, Margin, Quote, fiftyThousand)
	requireBalance(t, l, Margin, Collateral, fiftyThousand)
	requireBalance(t, l, Margin, Debt, decimal.Zero)
	assert.Equal(t, int64(0), l.CurrentTick())
	assert.True(t, l.MaximumLeverage().Equal(two))
	assert.Equal(t, "BTC-USDT", l.Pair().String())
}

func TestUnknownKeys(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	_, err := l.Balance(Account(99), Quote)
	assert.ErrorIs(t, err, ErrUnknownAccount)
	_, err = l.Balance(Spot, Debt)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = l.Available(Spot, Collateral)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	assert.ErrorIs(t, l.Reserve(UnknownAccount, Quote, decimal.NewFromInt(1)), ErrUnknownAccount)
	assert.ErrorIs(t, l.Force(Delta{Account: Margin, Asset: UnknownAsset}), ErrUnknownAsset)
	_, err = l.History(Spot, Collateral)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = l.Series(Spot, Debt)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = l.ValueAt(Margin, UnknownAsset, 0)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestAvailable(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	v, err := l.Available(Spot, Quote)
	require.NoError(t, err)
	assert.True(t, v.Equal(fiftyThousand), "spot quote should not be levered")

	v, err = l.Available(Margin, Quote)
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(100000)), "margin quote should be multiplied by leverage, got %s", v)

	require.NoError(t, l.Reserve(Margin, Quote, decimal.NewFromInt(-10000)))
	v, err = l.Available(Margin, Quote)
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(80000)), "pending deltas should count towards availability, got %s", v)

	v, err = l.Projected(Margin, Quote)
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(40000)), "projected balance should not be levered, got %s", v)
}

func TestReserve(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	require.NoError(t, l.Reserve(Spot, Quote, decimal.NewFromInt(-20000)))
	requireBalance(t, l, Spot, Quote, fiftyThousand)

	p, err := l.Pending(Spot, Quote)
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(-20000)))
	assert.True(t, l.HasPending())

	err = l.Reserve(Spot, Quote, decimal.NewFromInt(-30001))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	p, err = l.Pending(Spot, Quote)
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(-20000)), "a failed reservation should leave pending untouched")

	assert.ErrorIs(t, l.Reserve(Spot, Base, decimal.NewFromInt(-1)), ErrInsufficientFunds)
	assert.NoError(t, l.Reserve(Margin, Base, decimal.NewFromInt(-3)), "margin position may go short")
}

func TestReserveAll(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	err := l.ReserveAll(
		Delta{Account: Spot, Asset: Base, Amount: decimal.NewFromInt(1)},
		Delta{Account: Spot, Asset: Quote, Amount: decimal.NewFromInt(-60000)},
	)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.False(t, l.HasPending(), "no leg should be applied when one fails")

	// legs on the same balance are summed before the check
	require.NoError(t, l.ReserveAll(
		Delta{Account: Spot, Asset: Quote, Amount: decimal.NewFromInt(-60000)},
		Delta{Account: Spot, Asset: Quote, Amount: decimal.NewFromInt(20000)},
	))
	p, err := l.Pending(Spot, Quote)
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(-40000)))
}

func TestSettle(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	closing := []Delta{
		{Account: Margin, Asset: Quote, Amount: decimal.NewFromInt(-60000)},
		{Account: Margin, Asset: Collateral, Amount: decimal.NewFromInt(-60000)},
	}
	opening := Delta{Account: Margin, Asset: Quote, Amount: decimal.NewFromInt(-1)}
	assert.ErrorIs(t, l.Settle(closing, opening), ErrInsufficientFunds, "an opening leg must be affordable after the close")
	assert.False(t, l.HasPending(), "no leg should be applied when the opening leg fails")

	require.NoError(t, l.Settle(closing), "a closing leg is never refused")
	require.NoError(t, l.Commit(1))
	requireBalance(t, l, Margin, Quote, decimal.NewFromInt(-10000))
	requireBalance(t, l, Margin, Collateral, decimal.NewFromInt(-10000))

	// a close that frees collateral funds the opening leg settled with it
	require.NoError(t, l.Settle(
		[]Delta{{Account: Margin, Asset: Quote, Amount: decimal.NewFromInt(15000)}},
		Delta{Account: Margin, Asset: Quote, Amount: decimal.NewFromInt(-5000)},
	))
	require.NoError(t, l.Commit(2))
	requireBalance(t, l, Margin, Quote, decimal.Zero)
}

func TestForce(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	require.NoError(t, l.Force(Delta{Account: Margin, Asset: Quote, Amount: decimal.NewFromInt(-60000)}))
	require.NoError(t, l.Commit(1), "negative margin quote is not a commit invariant")
	requireBalance(t, l, Margin, Quote, decimal.NewFromInt(-10000))
}

func TestCommit(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	assert.ErrorIs(t, l.Commit(0), ErrTickOutOfOrder)

	require.NoError(t, l.ReserveAll(
		Delta{Account: Spot, Asset: Quote, Amount: decimal.NewFromInt(-100)},
		Delta{Account: Spot, Asset: Base, Amount: decimal.NewFromInt(1)},
	))
	require.NoError(t, l.Commit(1))
	assert.False(t, l.HasPending(), "commit should reset pending")
	requireBalance(t, l, Spot, Quote, decimal.NewFromInt(49900))
	requireBalance(t, l, Spot, Base, decimal.NewFromInt(1))

	h, err := l.History(Spot, Base)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, int64(0), h[0].Tick)
	assert.True(t, h[0].Value.IsZero())
	assert.Equal(t, int64(1), h[1].Tick)
	assert.True(t, h[1].Value.Equal(decimal.NewFromInt(1)))

	h, err = l.History(Margin, Debt)
	require.NoError(t, err)
	assert.Len(t, h, 1, "untouched balances should not gain an entry")

	// trades within a tick net into one entry
	require.NoError(t, l.Reserve(Spot, Base, decimal.NewFromInt(2)))
	require.NoError(t, l.Reserve(Spot, Base, decimal.NewFromInt(-2)))
	require.NoError(t, l.Commit(2))
	h, err = l.History(Spot, Base)
	require.NoError(t, err)
	assert.Len(t, h, 2, "a netted zero delta should not gain an entry")

	assert.ErrorIs(t, l.Commit(2), ErrTickOutOfOrder)
	assert.NoError(t, l.Commit(5), "ticks may be skipped")
	assert.Equal(t, int64(5), l.CurrentTick())
}

func TestCommitInvariantViolation(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	require.NoError(t, l.Force(Delta{Account: Margin, Asset: Debt, Amount: decimal.NewFromInt(-1)}))
	assert.ErrorIs(t, l.Commit(1), ErrInvariantViolation)
}

func TestValueAtAndSeries(t *testing.T) {
	t.Parallel()
	l, err := New(Settings{
		Pair:            currency.NewPair(currency.ETH, currency.USDT),
		OpeningTick:     10,
		MaximumLeverage: two,
		SpotQuote:       decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	require.NoError(t, l.Commit(11))
	require.NoError(t, l.Reserve(Spot, Quote, decimal.NewFromInt(-40)))
	require.NoError(t, l.Commit(12))
	require.NoError(t, l.Commit(13))
	require.NoError(t, l.Reserve(Spot, Quote, decimal.NewFromInt(15)))
	require.NoError(t, l.Commit(14))

	_, err = l.ValueAt(Spot, Quote, 9)
	assert.ErrorIs(t, err, errTickBeforeOpening)
	_, err = l.ValueAt(Spot, Quote, 15)
	assert.ErrorIs(t, err, errTickNotCommitted)

	for tick, exp := range map[int64]int64{10: 100, 11: 100, 12: 60, 13: 60, 14: 75} {
		v, err := l.ValueAt(Spot, Quote, tick)
		require.NoError(t, err)
		assert.Truef(t, v.Equal(decimal.NewFromInt(exp)), "tick %d should be %d, got %s", tick, exp, v)
	}

	s, err := l.Series(Spot, Quote)
	require.NoError(t, err)
	require.Len(t, s, 5, "series should span opening to current tick")
	assert.True(t, s[0].Equal(decimal.NewFromInt(100)))
	assert.True(t, s[3].Equal(decimal.NewFromInt(60)), "untouched ticks should forward fill")
	assert.True(t, s[4].Equal(decimal.NewFromInt(75)))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	l := newTestLedger(t)
	require.NoError(t, l.Reserve(Spot, Quote, decimal.NewFromInt(-1)))
	s := l.Snapshot()
	assert.Equal(t, int64(0), s.Tick)
	assert.Len(t, s.Balances, 6)
	assert.True(t, s.Balances[Key{Spot, Quote}].Equal(fiftyThousand), "snapshot should only hold committed values")
}

func TestNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "exchange", Spot.String())
	assert.Equal(t, "margin", Margin.String())
	assert.Equal(t, "unknown", UnknownAccount.String())
	assert.Equal(t, "margin/debt", Key{Margin, Debt}.String())

	a, err := ParseAccount("Spot")
	require.NoError(t, err)
	assert.Equal(t, Spot, a)
	_, err = ParseAccount("futures")
	assert.ErrorIs(t, err, ErrUnknownAccount)

	var cfg struct {
		Account Account `json:"account"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"account":"margin"}`), &cfg))
	assert.Equal(t, Margin, cfg.Account)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"account":"wallet"}`), &cfg), ErrUnknownAccount)
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"account":"margin"}`, string(b))

	b, err = json.Marshal(map[Key]int{{Margin, Debt}: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"margin/debt":1}`, string(b))
}
