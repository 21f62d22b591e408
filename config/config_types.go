package config

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/log"
)

// Data sources
const (
	SourceDatabase = "database"
	SourceSineWave = "sine-wave"
)

var (
	errNoStrategy          = errors.New("no strategy name set")
	errNoExchange          = errors.New("no exchange name set")
	errInvalidFunding      = errors.New("funding must be non-negative with at least one account funded")
	errInvalidLeverage     = errors.New("maximum leverage must be at least 1")
	errInvalidFee          = errors.New("trading fee must be between 0 and 1")
	errInvalidThreshold    = errors.New("liquidation threshold must be between 0 and 1")
	errInvalidStartIndex   = errors.New("start index cannot be negative")
	errUnknownDataSource   = errors.New("unknown data source")
	errDatabaseRequired    = errors.New("database source requires database settings to be enabled")
	errInvalidSineWave     = errors.New("sine wave settings require points, cycle, a positive mid price and an amplitude below it")
	errMetricsNoListenAddr = errors.New("metrics enabled without a listen address")
)

// Config defines a single paper trading run
type Config struct {
	Nickname         string           `json:"nickname"`
	Goal             string           `json:"goal"`
	StrategySettings StrategySettings `json:"strategy-settings"`
	PairSettings     PairSettings     `json:"pair-settings"`
	FundingSettings  FundingSettings  `json:"funding-settings"`
	EngineSettings   EngineSettings   `json:"engine-settings"`
	RunSettings      RunSettings      `json:"run-settings"`
	DataSettings     DataSettings     `json:"data-settings"`
	DatabaseSettings database.Config  `json:"database-settings"`
	MetricsSettings  MetricsSettings  `json:"metrics-settings"`
	LoggingSettings  *log.Config      `json:"logging,omitempty"`
	DataDirectory    string           `json:"data-directory,omitempty"`
}

// StrategySettings names the strategy and its custom settings
type StrategySettings struct {
	Name           string         `json:"name"`
	CustomSettings map[string]any `json:"custom-settings,omitempty"`
}

// PairSettings defines the traded pair. Quote is asset A and Base is asset B
type PairSettings struct {
	ExchangeName string `json:"exchange-name"`
	Base         string `json:"base"`
	Quote        string `json:"quote"`
}

// FundingSettings defines the opening balances
type FundingSettings struct {
	SpotQuote        decimal.Decimal `json:"spot-quote"`
	MarginCollateral decimal.Decimal `json:"margin-collateral"`
	MaximumLeverage  decimal.Decimal `json:"maximum-leverage"`
}

// EngineSettings configure fees and liquidation
type EngineSettings struct {
	TradingFee           decimal.Decimal `json:"trading-fee"`
	IncludeFee           bool            `json:"include-fee"`
	LiquidationThreshold decimal.Decimal `json:"liquidation-threshold"`
	DeductExitFee        bool            `json:"deduct-exit-fee"`
}

// RunSettings configure the replay
type RunSettings struct {
	StartIndex int64  `json:"start-index"`
	PNLMode    string `json:"pnl-mode"`
}

// DataSettings selects where the price series comes from
type DataSettings struct {
	Source    string            `json:"source"`
	Interval  feed.Interval     `json:"interval"`
	StartDate time.Time         `json:"start-date"`
	EndDate   time.Time         `json:"end-date"`
	SineWave  *SineWaveSettings `json:"sine-wave,omitempty"`
}

// SineWaveSettings generate a synthetic series
type SineWaveSettings struct {
	Points    int             `json:"points"`
	Cycle     int             `json:"cycle"`
	Mid       decimal.Decimal `json:"mid"`
	Amplitude decimal.Decimal `json:"amplitude"`
}

// MetricsSettings expose prometheus metrics while running
type MetricsSettings struct {
	Enabled       bool   `json:"enabled"`
	ListenAddress string `json:"listen-address"`
}
