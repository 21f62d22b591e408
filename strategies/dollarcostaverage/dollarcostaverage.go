package dollarcostaverage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/order"
	"github.com/thrasher-corp/papertrader/runner"
	"github.com/thrasher-corp/papertrader/strategies/base"
)

const (
	// Name is the strategy name
	Name          = "dollarcostaverage"
	everyTicksKey = "every-ticks"
	description   = `Dollar-cost averaging (DCA) is an investment strategy in which an investor divides up the total amount to be invested across periodic purchases of a target asset in an effort to reduce the impact of volatility on the overall purchase. The purchases occur regardless of the asset's price and at regular intervals`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	base.Strategy
	everyTicks int64
	ticks      int64
}

// Name returns the name
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// OnTick enters long on every Nth tick of the run regardless of price.
// Rejections, such as running out of quote, are logged and the run continues
func (s *Strategy) OnTick(_ context.Context, tc *runner.TickContext) error {
	if tc == nil || tc.Engine == nil {
		return common.ErrNilArguments
	}
	s.ticks++
	if s.everyTicks > 1 && (s.ticks-1)%s.everyTicks != 0 {
		return nil
	}
	amount, isPercent := s.Amount()
	res := tc.Engine.EnterLong(s.Account(), amount, isPercent, decimal.Zero)
	if res.Status == order.Rejected {
		log.Debugf(log.Strategy, "%s tick %d: %v", Name, tc.Tick.Index, res.Err)
	}
	return nil
}

// SetCustomSettings sets the sizing and how often to buy
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		ok, err := s.ParseSizingSetting(k, v)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if k != everyTicksKey {
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
		every, ok := v.(float64)
		if !ok || every < 1 || every != float64(int64(every)) {
			return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, everyTicksKey, v)
		}
		s.everyTicks = int64(every)
	}
	return nil
}

// SetDefaults buys 10% of the spot quote balance every tick
func (s *Strategy) SetDefaults() {
	s.SetSizing(ledger.Spot, decimal.NewFromFloat(0.1), true)
	s.everyTicks = 1
	s.ticks = 0
}
