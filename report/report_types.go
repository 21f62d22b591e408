package report

import (
	"errors"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	gctmath "github.com/thrasher-corp/papertrader/common/math"
	"github.com/thrasher-corp/papertrader/currency"
	"github.com/thrasher-corp/papertrader/ledger"
)

var errNoResults = errors.New("run has no committed ticks")

// Summary holds the end of run statistics
type Summary struct {
	RunID    uuid.UUID
	Strategy string
	Pair     currency.Pair
	PNLMode  string

	FirstTick int64
	LastTick  int64
	Ticks     int

	StartingEquity decimal.Decimal
	EndingEquity   decimal.Decimal
	NetPNL         decimal.Decimal
	ReturnPercent  decimal.Decimal
	IsProfitable   bool

	MaxDrawdown        gctmath.Drawdown
	MaxDrawdownPercent decimal.Decimal
	DrawdownStartTick  int64
	DrawdownEndTick    int64
	SharpeRatio        decimal.Decimal
	BestTickPNL        decimal.Decimal
	WorstTickPNL       decimal.Decimal

	Filled             int
	Opened             int
	Rejected           int
	Liquidations       int
	LiquidationLossSum decimal.Decimal
	FinalBalances      ledger.Snapshot
}
