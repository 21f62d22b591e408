package ledger

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/currency"
	"github.com/thrasher-corp/papertrader/log"
)

// New returns a ledger funded at the opening tick. Margin free collateral
// opens equal to the margin collateral
func New(s Settings) (*Ledger, error) {
	if err := s.Pair.Validate(); err != nil {
		return nil, err
	}
	if s.MaximumLeverage.LessThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: %s", errInvalidLeverage, s.MaximumLeverage)
	}
	if s.SpotQuote.IsNegative() || s.MarginCollateral.IsNegative() {
		return nil, errNegativeFunding
	}
	l := &Ledger{
		pair:            s.Pair,
		maximumLeverage: s.MaximumLeverage,
		openingTick:     s.OpeningTick,
		currentTick:     s.OpeningTick,
		history:         make(map[Key][]Entry, len(keys)),
		pending:         make(map[Key]decimal.Decimal, len(keys)),
	}
	funding := map[Key]decimal.Decimal{
		{Spot, Quote}:        s.SpotQuote,
		{Margin, Quote}:      s.MarginCollateral,
		{Margin, Collateral}: s.MarginCollateral,
	}
	for _, k := range keys {
		l.history[k] = []Entry{{Tick: s.OpeningTick, Value: funding[k]}}
	}
	log.Debugf(log.Ledger, "%s ledger opened at tick %d: %s %s spot, %s %s margin collateral, max leverage %s",
		s.Pair, s.OpeningTick, s.SpotQuote, s.Pair.Quote, s.MarginCollateral, s.Pair.Quote, s.MaximumLeverage)
	return l, nil
}

func validKey(k Key) error {
	switch k.Account {
	case Spot:
		if k.Asset == Quote || k.Asset == Base {
			return nil
		}
	case Margin:
		if k.Asset >= Quote && k.Asset <= Debt {
			return nil
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAccount, k.Account)
	}
	return fmt.Errorf("%w: %s holds no %s", ErrUnknownAsset, k.Account, k.Asset)
}

// nonNegative reports whether a balance may never drop below zero through a
// reservation. Only the signed margin position is exempt
func nonNegative(k Key) bool {
	return k != Key{Margin, Base}
}

func (l *Ledger) last(k Key) decimal.Decimal {
	h := l.history[k]
	return h[len(h)-1].Value
}

// Keys returns every balance the ledger holds in a stable order
func Keys() []Key {
	return slices.Clone(keys)
}

// Pair returns the traded pair
func (l *Ledger) Pair() currency.Pair {
	return l.pair
}

// MaximumLeverage returns the margin leverage multiplier
func (l *Ledger) MaximumLeverage() decimal.Decimal {
	return l.maximumLeverage
}

// OpeningTick returns the tick of the initial funding
func (l *Ledger) OpeningTick() int64 {
	return l.openingTick
}

// CurrentTick returns the last committed tick
func (l *Ledger) CurrentTick() int64 {
	l.m.RLock()
	defer l.m.RUnlock()
	return l.currentTick
}

// Balance returns the committed value of a balance
func (l *Ledger) Balance(a Account, asset Asset) (decimal.Decimal, error) {
	k := Key{a, asset}
	if err := validKey(k); err != nil {
		return decimal.Zero, err
	}
	l.m.RLock()
	defer l.m.RUnlock()
	return l.last(k), nil
}

// Pending returns the uncommitted delta of a balance for the current tick
func (l *Ledger) Pending(a Account, asset Asset) (decimal.Decimal, error) {
	k := Key{a, asset}
	if err := validKey(k); err != nil {
		return decimal.Zero, err
	}
	l.m.RLock()
	defer l.m.RUnlock()
	return l.pending[k], nil
}

// Projected returns the committed balance plus the pending delta
func (l *Ledger) Projected(a Account, asset Asset) (decimal.Decimal, error) {
	k := Key{a, asset}
	if err := validKey(k); err != nil {
		return decimal.Zero, err
	}
	l.m.RLock()
	defer l.m.RUnlock()
	return l.last(k).Add(l.pending[k]), nil
}

// Available returns the committed balance plus the pending delta. Margin
// quote availability is multiplied by the maximum leverage
func (l *Ledger) Available(a Account, asset Asset) (decimal.Decimal, error) {
	v, err := l.Projected(a, asset)
	if err != nil {
		return decimal.Zero, err
	}
	if a == Margin && asset == Quote {
		v = v.Mul(l.maximumLeverage)
	}
	return v, nil
}

// Reserve accumulates a single signed delta into the pending update
func (l *Ledger) Reserve(a Account, asset Asset, amount decimal.Decimal) error {
	return l.ReserveAll(Delta{Account: a, Asset: asset, Amount: amount})
}

// ReserveAll accumulates every delta or none of them. Deltas to the same
// balance are summed before the affordability check
func (l *Ledger) ReserveAll(deltas ...Delta) error {
	summed, err := sumDeltas(deltas)
	if err != nil {
		return err
	}
	l.m.Lock()
	defer l.m.Unlock()
	for _, k := range keys {
		d, ok := summed[k]
		if !ok || !nonNegative(k) {
			continue
		}
		if after := l.last(k).Add(l.pending[k]).Add(d); after.IsNegative() {
			return fmt.Errorf("%w: %s would be %s", ErrInsufficientFunds, k, after)
		}
	}
	l.apply(summed)
	return nil
}

// Settle accumulates closing and opening deltas together, or neither. The
// closing deltas are not checked: a close always repays its own debt, and a
// realised loss may leave margin quote or collateral below zero. Every
// balance the opening deltas draw down must stay non-negative once the
// closing deltas have been applied
func (l *Ledger) Settle(closing []Delta, opening ...Delta) error {
	closed, err := sumDeltas(closing)
	if err != nil {
		return err
	}
	opened, err := sumDeltas(opening)
	if err != nil {
		return err
	}
	l.m.Lock()
	defer l.m.Unlock()
	for _, k := range keys {
		d, ok := opened[k]
		if !ok || !d.IsNegative() || !nonNegative(k) {
			continue
		}
		if after := l.last(k).Add(l.pending[k]).Add(closed[k]).Add(d); after.IsNegative() {
			return fmt.Errorf("%w: %s would be %s", ErrInsufficientFunds, k, after)
		}
	}
	l.apply(closed)
	l.apply(opened)
	return nil
}

// Force accumulates deltas without affordability checks. It exists for
// forced liquidation, which must close positions whatever they cost
func (l *Ledger) Force(deltas ...Delta) error {
	summed, err := sumDeltas(deltas)
	if err != nil {
		return err
	}
	l.m.Lock()
	defer l.m.Unlock()
	l.apply(summed)
	return nil
}

func sumDeltas(deltas []Delta) (map[Key]decimal.Decimal, error) {
	summed := make(map[Key]decimal.Decimal, len(deltas))
	for i := range deltas {
		k := Key{deltas[i].Account, deltas[i].Asset}
		if err := validKey(k); err != nil {
			return nil, err
		}
		summed[k] = summed[k].Add(deltas[i].Amount)
	}
	return summed, nil
}

func (l *Ledger) apply(summed map[Key]decimal.Decimal) {
	for k, d := range summed {
		l.pending[k] = l.pending[k].Add(d)
	}
}

// HasPending reports whether any balance has an uncommitted change
func (l *Ledger) HasPending() bool {
	l.m.RLock()
	defer l.m.RUnlock()
	for _, d := range l.pending {
		if !d.IsZero() {
			return true
		}
	}
	return false
}

// Commit settles the pending deltas at tick. Exactly one entry is appended
// for every balance that changed; untouched balances keep their last entry.
// A spot balance or margin debt below zero after the commit returns
// ErrInvariantViolation
func (l *Ledger) Commit(tick int64) error {
	l.m.Lock()
	defer l.m.Unlock()
	if tick <= l.currentTick {
		return fmt.Errorf("%w: %d after %d", ErrTickOutOfOrder, tick, l.currentTick)
	}
	var changed int
	for _, k := range keys {
		d := l.pending[k]
		if d.IsZero() {
			continue
		}
		l.history[k] = append(l.history[k], Entry{Tick: tick, Value: l.last(k).Add(d)})
		changed++
	}
	clear(l.pending)
	l.currentTick = tick
	if changed > 0 {
		log.Debugf(log.Ledger, "tick %d committed %d balance changes", tick, changed)
	}

	for _, k := range []Key{{Spot, Quote}, {Spot, Base}, {Margin, Debt}} {
		if v := l.last(k); v.IsNegative() {
			return fmt.Errorf("%w: %s is %s at tick %d", ErrInvariantViolation, k, v, tick)
		}
	}
	return nil
}

// ValueAt returns the last known value of a balance at or before tick
func (l *Ledger) ValueAt(a Account, asset Asset, tick int64) (decimal.Decimal, error) {
	k := Key{a, asset}
	if err := validKey(k); err != nil {
		return decimal.Zero, err
	}
	l.m.RLock()
	defer l.m.RUnlock()
	if tick < l.openingTick {
		return decimal.Zero, fmt.Errorf("%w: %d before %d", errTickBeforeOpening, tick, l.openingTick)
	}
	if tick > l.currentTick {
		return decimal.Zero, fmt.Errorf("%w: %d after %d", errTickNotCommitted, tick, l.currentTick)
	}
	h := l.history[k]
	// first entry after tick, the one before it holds the value
	i, _ := slices.BinarySearchFunc(h, tick+1, func(e Entry, t int64) int {
		switch {
		case e.Tick < t:
			return -1
		case e.Tick > t:
			return 1
		}
		return 0
	})
	return h[i-1].Value, nil
}

// History returns a copy of the sparse committed entries of a balance
func (l *Ledger) History(a Account, asset Asset) ([]Entry, error) {
	k := Key{a, asset}
	if err := validKey(k); err != nil {
		return nil, err
	}
	l.m.RLock()
	defer l.m.RUnlock()
	return slices.Clone(l.history[k]), nil
}

// Series returns the forward filled value of a balance for every tick from
// the opening tick to the current tick inclusive
func (l *Ledger) Series(a Account, asset Asset) ([]decimal.Decimal, error) {
	k := Key{a, asset}
	if err := validKey(k); err != nil {
		return nil, err
	}
	l.m.RLock()
	defer l.m.RUnlock()
	h := l.history[k]
	resp := make([]decimal.Decimal, l.currentTick-l.openingTick+1)
	var j int
	for i := range resp {
		tick := l.openingTick + int64(i)
		for j+1 < len(h) && h[j+1].Tick <= tick {
			j++
		}
		resp[i] = h[j].Value
	}
	return resp, nil
}

// Snapshot returns every committed balance at the current tick
func (l *Ledger) Snapshot() Snapshot {
	l.m.RLock()
	defer l.m.RUnlock()
	s := Snapshot{
		Tick:     l.currentTick,
		Balances: make(map[Key]decimal.Decimal, len(keys)),
	}
	for _, k := range keys {
		s.Balances[k] = l.last(k)
	}
	return s
}
