// Package report turns the output series of a run into summary statistics
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/common/convert"
	gctmath "github.com/thrasher-corp/papertrader/common/math"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/runner"
)

// Calculate summarises res. Ratios use the per tick percentage change in
// equity; ticks following a zero equity are skipped
func Calculate(res *runner.Results, l *ledger.Ledger) (*Summary, error) {
	if res == nil || len(res.Ticks) == 0 {
		return nil, errNoResults
	}
	last := len(res.Ticks) - 1
	s := &Summary{
		RunID:          res.RunID,
		Strategy:       res.Strategy,
		Pair:           res.Pair,
		PNLMode:        res.PNLMode.String(),
		FirstTick:      res.Ticks[0],
		LastTick:       res.Ticks[last],
		Ticks:          len(res.Ticks),
		StartingEquity: res.StartingEquity,
		EndingEquity:   res.Equity[last],
		NetPNL:         res.TotalPNL(),
		Filled:         res.Filled,
		Opened:         res.Opened,
		Rejected:       res.Rejected,
		Liquidations:   len(res.Liquidations),
	}
	if l != nil {
		s.FinalBalances = l.Snapshot()
	}
	s.IsProfitable = s.EndingEquity.GreaterThan(s.StartingEquity)
	if !s.StartingEquity.IsZero() {
		s.ReturnPercent, _ = gctmath.DecimalPercentageChange(s.StartingEquity, s.EndingEquity)
	}

	equity := append([]decimal.Decimal{res.StartingEquity}, res.Equity...)
	s.MaxDrawdown = gctmath.MaxDrawdown(equity)
	if s.MaxDrawdown.Amount.IsPositive() {
		// index zero of equity is the opening balance
		s.DrawdownStartTick = tickAt(res, s.MaxDrawdown.HighestIndex)
		s.DrawdownEndTick = tickAt(res, s.MaxDrawdown.LowestIndex)
		if s.MaxDrawdown.Highest.IsPositive() {
			s.MaxDrawdownPercent = s.MaxDrawdown.Amount.Div(s.MaxDrawdown.Highest).Mul(decimal.NewFromInt(100))
		}
	}

	returns := make([]decimal.Decimal, 0, len(res.Equity))
	for i := 1; i < len(equity); i++ {
		change, err := gctmath.DecimalPercentageChange(equity[i-1], equity[i])
		if err != nil {
			continue
		}
		returns = append(returns, change)
	}
	s.SharpeRatio = gctmath.DecimalSharpeRatio(returns, decimal.Zero)

	s.BestTickPNL, s.WorstTickPNL = res.PNL[0], res.PNL[0]
	for i := range res.PNL {
		s.BestTickPNL = decimal.Max(s.BestTickPNL, res.PNL[i])
		s.WorstTickPNL = decimal.Min(s.WorstTickPNL, res.PNL[i])
	}
	for i := range res.Liquidations {
		s.LiquidationLossSum = s.LiquidationLossSum.Add(res.Liquidations[i].Loss)
	}
	return s, nil
}

// tickAt maps an index into the equity series, which is led by the opening
// balance, to a tick index
func tickAt(res *runner.Results, i int) int64 {
	if i == 0 {
		return res.Ticks[0] - 1
	}
	return res.Ticks[i-1]
}

// PrintResults outputs the summary to the report sub logger
func (s *Summary) PrintResults() {
	sep := fmt.Sprintf("%v %v |\t", s.Strategy, s.Pair)
	log.Info(log.Report, "------------------Run Summary-----------------------------------")
	log.Infof(log.Report, "%s Run ID: %v", sep, s.RunID)
	log.Infof(log.Report, "%s Ticks: %d (%d to %d)", sep, s.Ticks, s.FirstTick, s.LastTick)
	log.Infof(log.Report, "%s PNL mode: %v", sep, s.PNLMode)
	log.Infof(log.Report, "%s Filled orders: %d", sep, s.Filled)
	log.Infof(log.Report, "%s Opened limit orders: %d", sep, s.Opened)
	log.Infof(log.Report, "%s Rejected orders: %d", sep, s.Rejected)

	log.Info(log.Report, "------------------Max Drawdown----------------------------------")
	log.Infof(log.Report, "%s Highest equity of drawdown: %v at tick %d", sep, s.MaxDrawdown.Highest.Round(8), s.DrawdownStartTick)
	log.Infof(log.Report, "%s Lowest equity of drawdown: %v at tick %d", sep, s.MaxDrawdown.Lowest.Round(8), s.DrawdownEndTick)
	log.Infof(log.Report, "%s Calculated drawdown: %v%%", sep, s.MaxDrawdownPercent.Round(2))
	log.Infof(log.Report, "%s Difference: %v", sep, s.MaxDrawdown.Amount.Round(8))

	log.Info(log.Report, "------------------Ratios----------------------------------------")
	log.Infof(log.Report, "%s Sharpe ratio: %v", sep, s.SharpeRatio.Round(4))
	log.Infof(log.Report, "%s Best tick pnl: %v", sep, s.BestTickPNL.Round(8))
	log.Infof(log.Report, "%s Worst tick pnl: %v", sep, s.WorstTickPNL.Round(8))

	if s.Liquidations > 0 {
		log.Info(log.Report, "------------------Liquidations----------------------------------")
		log.Warnf(log.Report, "%s Liquidations: %d", sep, s.Liquidations)
		log.Warnf(log.Report, "%s Losses at liquidation: %v", sep, s.LiquidationLossSum.Round(8))
	}

	log.Info(log.Report, "------------------Results---------------------------------------")
	for _, k := range ledger.Keys() {
		if v, ok := s.FinalBalances.Balances[k]; ok {
			log.Infof(log.Report, "%s Final %v: %v", sep, k, v.Round(8))
		}
	}
	log.Infof(log.Report, "%s Starting equity: %v %v", sep, convert.DecimalToHumanFriendlyString(s.StartingEquity, 8, ".", ","), s.Pair.Quote)
	log.Infof(log.Report, "%s Ending equity: %v %v", sep, convert.DecimalToHumanFriendlyString(s.EndingEquity, 8, ".", ","), s.Pair.Quote)
	log.Infof(log.Report, "%s Net pnl: %v %v", sep, convert.DecimalToHumanFriendlyString(s.NetPNL, 8, ".", ","), s.Pair.Quote)
	log.Infof(log.Report, "%s Return: %v%%", sep, s.ReturnPercent.Round(2))
	log.Infof(log.Report, "%s Is profitable: %v", sep, s.IsProfitable)
}
