package rsi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"
	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/engine"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/order"
	"github.com/thrasher-corp/papertrader/runner"
	"github.com/thrasher-corp/papertrader/strategies/base"
)

const (
	// Name is the strategy name
	Name         = "rsi"
	rsiPeriodKey = "rsi-period"
	rsiLowKey    = "rsi-low"
	rsiHighKey   = "rsi-high"
	description  = `The relative strength index is a technical indicator used in the analysis of financial markets. It is intended to chart the current and historical strength or weakness of a stock or market based on the closing prices of a recent trading period`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	base.Strategy
	rsiPeriod decimal.Decimal
	rsiLow    decimal.Decimal
	rsiHigh   decimal.Decimal
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// OnTick computes the RSI of the closing prices and trades on it. At or
// below the low level it goes long, at or above the high level it goes short
// on margin, netting any open position, or sells out of a spot long
func (s *Strategy) OnTick(_ context.Context, tc *runner.TickContext) error {
	if tc == nil || tc.Engine == nil {
		return common.ErrNilArguments
	}
	period := int(s.rsiPeriod.IntPart())
	if len(tc.Prices) <= period {
		return nil
	}
	latest, err := s.latestRSI(tc.Prices)
	if err != nil {
		return err
	}
	direction, _, err := tc.Engine.Position(s.Account())
	if err != nil {
		return err
	}

	var res order.Result
	switch {
	case latest.GreaterThanOrEqual(s.rsiHigh):
		res, err = s.sell(tc.Engine, direction)
		if err != nil {
			return err
		}
	case latest.LessThanOrEqual(s.rsiLow):
		if direction == order.Long {
			return nil
		}
		amount, isPercent := s.Amount()
		res = tc.Engine.EnterLong(s.Account(), amount, isPercent, decimal.Zero)
	default:
		return nil
	}
	if res.Status == order.UnknownStatus {
		return nil
	}
	log.Debugf(log.Strategy, "%s tick %d RSI at %s: %s", Name, tc.Tick.Index, latest.Round(2), res.String())
	return nil
}

// sell exits a spot long, or on margin reverses into a short of the
// configured size. The reversal closes the whole long in the same order
func (s *Strategy) sell(e *engine.Engine, held order.Direction) (order.Result, error) {
	if s.Account() == ledger.Spot {
		if held != order.Long {
			return order.Result{}, nil
		}
		return e.ExitLong(ledger.Spot, decimal.NewFromInt(1), true, decimal.Zero), nil
	}
	if held == order.Short {
		return order.Result{}, nil
	}
	amount, isPercent := s.Amount()
	if held != order.Long {
		return e.EnterShort(s.Account(), amount, isPercent, decimal.Zero), nil
	}
	_, longQty, err := e.Position(s.Account())
	if err != nil {
		return order.Result{}, err
	}
	shortQty, err := e.EntryQuantity(s.Account(), amount, isPercent)
	if err != nil {
		return order.Result{}, err
	}
	return e.EnterShort(s.Account(), longQty.Add(shortQty), false, decimal.Zero), nil
}

func (s *Strategy) latestRSI(prices []decimal.Decimal) (decimal.Decimal, error) {
	in := make([]float64, len(prices))
	for i := range prices {
		if !prices[i].IsPositive() {
			return decimal.Zero, fmt.Errorf("price %d is %s. %w", i, prices[i], base.ErrTooMuchBadData)
		}
		in[i] = prices[i].InexactFloat64()
	}
	rsi := indicators.RSI(in, int(s.rsiPeriod.IntPart()))
	return decimal.NewFromFloat(rsi[len(rsi)-1]), nil
}

// SetCustomSettings allows a user to modify the RSI limits and sizing in
// their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		ok, err := s.ParseSizingSetting(k, v)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		switch k {
		case rsiHighKey:
			rsiHigh, ok := v.(float64)
			if !ok || rsiHigh <= 0 {
				return fmt.Errorf("%w provided rsi-high value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.rsiHigh = decimal.NewFromFloat(rsiHigh)
		case rsiLowKey:
			rsiLow, ok := v.(float64)
			if !ok || rsiLow <= 0 {
				return fmt.Errorf("%w provided rsi-low value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.rsiLow = decimal.NewFromFloat(rsiLow)
		case rsiPeriodKey:
			rsiPeriod, ok := v.(float64)
			if !ok || rsiPeriod < 1 {
				return fmt.Errorf("%w provided rsi-period value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.rsiPeriod = decimal.NewFromFloat(rsiPeriod).Floor()
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.rsiLow.GreaterThanOrEqual(s.rsiHigh) {
		return fmt.Errorf("%w rsi-low %v must be below rsi-high %v", base.ErrInvalidCustomSettings, s.rsiLow, s.rsiHigh)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.rsiHigh = decimal.NewFromInt(70)
	s.rsiLow = decimal.NewFromInt(30)
	s.rsiPeriod = decimal.NewFromInt(14)
	s.SetSizing(ledger.Margin, decimal.NewFromInt(1), true)
}
