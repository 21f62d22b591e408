package runner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/currency"
	"github.com/thrasher-corp/papertrader/engine"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/order"
)

// balances hides the mutating ledger methods from strategies
type balances struct {
	l *ledger.Ledger
}

func (b balances) Pair() currency.Pair { return b.l.Pair() }

func (b balances) CurrentTick() int64 { return b.l.CurrentTick() }

func (b balances) Balance(a ledger.Account, asset ledger.Asset) (decimal.Decimal, error) {
	return b.l.Balance(a, asset)
}

func (b balances) Pending(a ledger.Account, asset ledger.Asset) (decimal.Decimal, error) {
	return b.l.Pending(a, asset)
}

func (b balances) Projected(a ledger.Account, asset ledger.Asset) (decimal.Decimal, error) {
	return b.l.Projected(a, asset)
}

func (b balances) Available(a ledger.Account, asset ledger.Asset) (decimal.Decimal, error) {
	return b.l.Available(a, asset)
}

func (b balances) ValueAt(a ledger.Account, asset ledger.Asset, tick int64) (decimal.Decimal, error) {
	return b.l.ValueAt(a, asset, tick)
}

func (b balances) Series(a ledger.Account, asset ledger.Asset) ([]decimal.Decimal, error) {
	return b.l.Series(a, asset)
}

// closer is implemented by feeds that can hand over their price history
type closer interface {
	Closes() []decimal.Decimal
}

// New returns a Runner that replays f into e and l. The ledger must not yet
// have committed past the feed's opening tick. The runner registers itself
// as the engine observer
func New(f feed.Feed, e *engine.Engine, l *ledger.Ledger, s Strategy, settings Settings) (*Runner, error) {
	switch {
	case f == nil:
		return nil, errNilFeed
	case e == nil:
		return nil, errNilEngine
	case l == nil:
		return nil, errNilLedger
	case s == nil:
		return nil, ErrNilStrategy
	}
	if settings.PNLMode > MarkToMarket {
		return nil, fmt.Errorf("%w: %d", errInvalidPNLMode, settings.PNLMode)
	}
	opening := f.Current()
	if opening.Index != l.CurrentTick() {
		return nil, fmt.Errorf("%w: feed at %d, ledger at %d", errTickMismatch, opening.Index, l.CurrentTick())
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	equity, err := e.Equity()
	if err != nil {
		return nil, err
	}
	r := &Runner{
		id:             id,
		feed:           f,
		engine:         e,
		ledger:         l,
		strategy:       s,
		pnlMode:        settings.PNLMode,
		observers:      settings.Observers,
		previousEquity: equity,
		results: Results{
			RunID:          id,
			Strategy:       s.Name(),
			Pair:           l.Pair(),
			PNLMode:        settings.PNLMode,
			StartingEquity: equity,
		},
	}
	if c, ok := f.(closer); ok {
		r.prices = c.Closes()
	} else {
		r.prices = []decimal.Decimal{opening.Price}
	}
	e.SetObserver(r)
	return r, nil
}

// ID returns the unique id of the run
func (r *Runner) ID() uuid.UUID {
	return r.id
}

// Err returns the fatal error that stopped the run, if any
func (r *Runner) Err() error {
	return r.err
}

// Step replays exactly one tick: it advances the feed, checks for forced
// liquidation, evaluates open orders, invokes the strategy, commits the
// ledger and appends the tick's profit and loss. feed.ErrFeedExhausted is
// returned once the series is done. Any other error is fatal and stops the
// runner
func (r *Runner) Step(ctx context.Context) (*TickOutcome, error) {
	if r.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStopped, r.err)
	}
	tick, err := r.feed.Next()
	if err != nil {
		if errors.Is(err, feed.ErrFeedExhausted) {
			return nil, err
		}
		return nil, r.stop(err)
	}
	if err = r.engine.BeginTick(tick); err != nil {
		return nil, r.stop(err)
	}
	r.prices = append(r.prices, tick.Price)

	out := &TickOutcome{Tick: tick}
	r.current = out
	defer func() { r.current = nil }()

	if out.Liquidation, err = r.engine.CheckForcedLiquidation(); err != nil {
		return nil, r.stop(err)
	}
	r.engine.EvaluateOpenOrders()
	tc := &TickContext{
		Tick:   tick,
		Prices: slices.Clip(r.prices),
		Engine: r.engine,
		Ledger: balances{r.ledger},
	}
	if err = r.strategy.OnTick(ctx, tc); err != nil {
		return nil, r.stop(fmt.Errorf("strategy %s: %w", r.strategy.Name(), err))
	}
	if err = r.engine.Err(); err != nil {
		return nil, r.stop(err)
	}
	if err = r.ledger.Commit(tick.Index); err != nil {
		return nil, r.stop(err)
	}

	if out.Equity, err = r.engine.Equity(); err != nil {
		return nil, r.stop(err)
	}
	switch r.pnlMode {
	case MarkToMarket:
		out.PNL = out.Equity.Sub(r.previousEquity)
	default:
		out.PNL = r.engine.TickRealisedPNL()
	}
	r.previousEquity = out.Equity
	r.netPNL = r.netPNL.Add(out.PNL)
	out.NetPNL = r.netPNL
	r.record(out)
	for _, o := range r.observers {
		o.OnTickOutcome(out)
	}
	return out, nil
}

func (r *Runner) record(out *TickOutcome) {
	r.results.Ticks = append(r.results.Ticks, out.Tick.Index)
	r.results.PNL = append(r.results.PNL, out.PNL)
	r.results.NetPNL = append(r.results.NetPNL, out.NetPNL)
	r.results.Equity = append(r.results.Equity, out.Equity)
	if out.Liquidation != nil {
		r.results.Liquidations = append(r.results.Liquidations, *out.Liquidation)
	}
	for i := range out.Orders {
		switch out.Orders[i].Status {
		case order.Filled:
			r.results.Filled++
		case order.Opened:
			r.results.Opened++
		case order.Rejected:
			r.results.Rejected++
		}
	}
}

func (r *Runner) stop(err error) error {
	r.err = err
	log.Errorf(log.Runner, "run %s stopped at tick %d: %v", r.id, r.engine.Tick().Index, err)
	return err
}

// Run steps until the feed is exhausted, a fatal error occurs or ctx is
// done. Cancellation is checked once before each tick so a tick is never
// left half applied
func (r *Runner) Run(ctx context.Context) error {
	log.Infof(log.Runner, "run %s: %s on %s from tick %d", r.id, r.strategy.Name(), r.ledger.Pair(), r.feed.Current().Index)
	for {
		if err := ctx.Err(); err != nil {
			log.Warnf(log.Runner, "run %s cancelled after tick %d", r.id, r.ledger.CurrentTick())
			return err
		}
		if _, err := r.Step(ctx); err != nil {
			if errors.Is(err, feed.ErrFeedExhausted) {
				log.Infof(log.Runner, "run %s finished after %d ticks, net pnl %s", r.id, len(r.results.Ticks), r.netPNL)
				return nil
			}
			return err
		}
	}
}

// AddObserver registers o for every following tick outcome. It must not be
// called while a tick is being stepped
func (r *Runner) AddObserver(o Observer) {
	if o == nil {
		return
	}
	r.observers = append(r.observers, o)
}

// Results returns a copy of the output series so far
func (r *Runner) Results() Results {
	res := r.results
	res.Ticks = slices.Clone(r.results.Ticks)
	res.PNL = slices.Clone(r.results.PNL)
	res.NetPNL = slices.Clone(r.results.NetPNL)
	res.Equity = slices.Clone(r.results.Equity)
	res.Liquidations = slices.Clone(r.results.Liquidations)
	return res
}

// OnOrderResult gathers engine results into the current tick and forwards
// them to interested observers
func (r *Runner) OnOrderResult(res order.Result) {
	if r.current != nil {
		r.current.Orders = append(r.current.Orders, res)
	}
	for _, o := range r.observers {
		if eo, ok := o.(engine.Observer); ok {
			eo.OnOrderResult(res)
		}
	}
}

// OnLiquidation forwards liquidations to interested observers
func (r *Runner) OnLiquidation(l engine.Liquidation) {
	for _, o := range r.observers {
		if eo, ok := o.(engine.Observer); ok {
			eo.OnLiquidation(l)
		}
	}
}

// String returns the pnl mode name
func (m PNLMode) String() string {
	switch m {
	case Realised:
		return "realised"
	case MarkToMarket:
		return "mark-to-market"
	default:
		return "unknown"
	}
}

// ParsePNLMode returns the mode matching s. An empty string is Realised
func ParsePNLMode(s string) (PNLMode, error) {
	switch strings.ToLower(s) {
	case "", "realised", "realized":
		return Realised, nil
	case "mark-to-market", "mtm":
		return MarkToMarket, nil
	default:
		return 0, fmt.Errorf("%w: %q", errInvalidPNLMode, s)
	}
}

// TotalPNL returns the cumulative pnl at the end of the results
func (r *Results) TotalPNL() decimal.Decimal {
	if len(r.NetPNL) == 0 {
		return decimal.Zero
	}
	return r.NetPNL[len(r.NetPNL)-1]
}
