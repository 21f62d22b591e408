package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/common/file"
	"github.com/thrasher-corp/papertrader/currency"
	"github.com/thrasher-corp/papertrader/engine"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/runner"
	"github.com/thrasher-corp/papertrader/strategies"
)

// ReadConfigFromFile will take a config from a path
func ReadConfigFromFile(path string) (*Config, error) {
	if !file.Exists(path) {
		return nil, fmt.Errorf("%w: %s", os.ErrNotExist, path)
	}
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(fileData)
}

// LoadConfig unmarshalls byte data into a config struct
func LoadConfig(data []byte) (resp *Config, err error) {
	err = json.Unmarshal(data, &resp)
	return resp, err
}

// Validate checks every section of the config and that the named strategy
// accepts its custom settings
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config", common.ErrNilPointer)
	}
	for _, fn := range []func() error{
		c.validateStrategySettings,
		c.validatePairSettings,
		c.validateFundingSettings,
		c.validateEngineSettings,
		c.validateRunSettings,
		c.validateDataSettings,
		c.validateMetricsSettings,
	} {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateStrategySettings() error {
	if c.StrategySettings.Name == "" {
		return errNoStrategy
	}
	_, err := strategies.LoadStrategyByName(c.StrategySettings.Name, c.StrategySettings.CustomSettings)
	return err
}

func (c *Config) validatePairSettings() error {
	if c.PairSettings.ExchangeName == "" {
		return errNoExchange
	}
	_, err := c.Pair()
	return err
}

func (c *Config) validateFundingSettings() error {
	f := c.FundingSettings
	if f.SpotQuote.IsNegative() || f.MarginCollateral.IsNegative() ||
		(f.SpotQuote.IsZero() && f.MarginCollateral.IsZero()) {
		return errInvalidFunding
	}
	if f.MaximumLeverage.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s", errInvalidLeverage, f.MaximumLeverage)
	}
	return nil
}

func (c *Config) validateEngineSettings() error {
	e := c.EngineSettings
	if e.TradingFee.IsNegative() || e.TradingFee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s", errInvalidFee, e.TradingFee)
	}
	if e.LiquidationThreshold.IsNegative() || e.LiquidationThreshold.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s", errInvalidThreshold, e.LiquidationThreshold)
	}
	return nil
}

func (c *Config) validateRunSettings() error {
	if c.RunSettings.StartIndex < 0 {
		return errInvalidStartIndex
	}
	_, err := runner.ParsePNLMode(c.RunSettings.PNLMode)
	return err
}

func (c *Config) validateDataSettings() error {
	d := c.DataSettings
	if err := d.Interval.Validate(); err != nil {
		return err
	}
	switch d.Source {
	case SourceDatabase:
		if !c.DatabaseSettings.Enabled {
			return errDatabaseRequired
		}
		if err := c.DatabaseSettings.Validate(); err != nil {
			return err
		}
		return common.StartEndTimeCheck(d.StartDate, d.EndDate)
	case SourceSineWave:
		w := d.SineWave
		if w == nil || w.Points <= 0 || w.Cycle <= 0 || !w.Mid.IsPositive() ||
			w.Amplitude.IsNegative() || w.Amplitude.GreaterThanOrEqual(w.Mid) {
			return errInvalidSineWave
		}
		if d.StartDate.IsZero() {
			return fmt.Errorf("start %w", common.ErrDateUnset)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", errUnknownDataSource, d.Source)
}

func (c *Config) validateMetricsSettings() error {
	if c.MetricsSettings.Enabled && c.MetricsSettings.ListenAddress == "" {
		return errMetricsNoListenAddr
	}
	return nil
}

// Pair returns the configured currency pair
func (c *Config) Pair() (currency.Pair, error) {
	return currency.NewPairFromStrings(c.PairSettings.Base, c.PairSettings.Quote)
}

// LedgerSettings returns the opening funding of the ledger. The opening
// tick is the configured start index
func (c *Config) LedgerSettings() (ledger.Settings, error) {
	p, err := c.Pair()
	if err != nil {
		return ledger.Settings{}, err
	}
	return ledger.Settings{
		Pair:             p,
		OpeningTick:      c.RunSettings.StartIndex,
		MaximumLeverage:  c.FundingSettings.MaximumLeverage,
		SpotQuote:        c.FundingSettings.SpotQuote,
		MarginCollateral: c.FundingSettings.MarginCollateral,
	}, nil
}

// OrderEngineSettings returns the order engine settings
func (c *Config) OrderEngineSettings() engine.Settings {
	return engine.Settings{
		TradingFee:           c.EngineSettings.TradingFee,
		IncludeFee:           c.EngineSettings.IncludeFee,
		LiquidationThreshold: c.EngineSettings.LiquidationThreshold,
		DeductExitFee:        c.EngineSettings.DeductExitFee,
	}
}

// RunnerSettings returns the runner settings with the given observers
func (c *Config) RunnerSettings(observers ...runner.Observer) (runner.Settings, error) {
	mode, err := runner.ParsePNLMode(c.RunSettings.PNLMode)
	if err != nil {
		return runner.Settings{}, err
	}
	return runner.Settings{
		PNLMode:   mode,
		Observers: observers,
	}, nil
}

// SineWavePoints generates the synthetic series described by the data
// settings
func (c *Config) SineWavePoints() ([]feed.Point, error) {
	w := c.DataSettings.SineWave
	if w == nil {
		return nil, errInvalidSineWave
	}
	return feed.SineWave(c.DataSettings.StartDate, c.DataSettings.Interval, w.Points, w.Cycle, w.Mid, w.Amplitude)
}

// PrintSetting prints relevant settings to the console for easy reading
func (c *Config) PrintSetting() {
	log.Info(log.ConfigMgr, "-------------------------------------------------------------")
	log.Info(log.ConfigMgr, "------------------Paper Trader Settings----------------------")
	log.Info(log.ConfigMgr, "-------------------------------------------------------------")
	log.Info(log.ConfigMgr, "------------------Strategy Settings--------------------------")
	log.Infof(log.ConfigMgr, "Strategy: %s", c.StrategySettings.Name)
	if len(c.StrategySettings.CustomSettings) > 0 {
		log.Info(log.ConfigMgr, "Custom strategy variables:")
		for k, v := range c.StrategySettings.CustomSettings {
			log.Infof(log.ConfigMgr, "%s: %v", k, v)
		}
	} else {
		log.Info(log.ConfigMgr, "Custom strategy variables: unset")
	}
	log.Info(log.ConfigMgr, "-------------------------------------------------------------")
	log.Infof(log.ConfigMgr, "Exchange: %s", c.PairSettings.ExchangeName)
	log.Infof(log.ConfigMgr, "Pair: %s-%s", strings.ToUpper(c.PairSettings.Base), strings.ToUpper(c.PairSettings.Quote))
	log.Infof(log.ConfigMgr, "Spot quote funding: %s", c.FundingSettings.SpotQuote)
	log.Infof(log.ConfigMgr, "Margin collateral: %s", c.FundingSettings.MarginCollateral)
	log.Infof(log.ConfigMgr, "Maximum leverage: %s", c.FundingSettings.MaximumLeverage)
	log.Infof(log.ConfigMgr, "Trading fee: %s", c.EngineSettings.TradingFee)
	log.Infof(log.ConfigMgr, "Include fee: %v", c.EngineSettings.IncludeFee)
	log.Infof(log.ConfigMgr, "Deduct exit fee: %v", c.EngineSettings.DeductExitFee)
	log.Infof(log.ConfigMgr, "Liquidation threshold: %s", c.EngineSettings.LiquidationThreshold)
	log.Info(log.ConfigMgr, "-------------------------------------------------------------")
	log.Infof(log.ConfigMgr, "Data source: %s", c.DataSettings.Source)
	log.Infof(log.ConfigMgr, "Interval: %s", c.DataSettings.Interval.Word())
	log.Infof(log.ConfigMgr, "Start date: %v", c.DataSettings.StartDate.Format(common.SimpleTimeFormatWithTimezone))
	if !c.DataSettings.EndDate.IsZero() {
		log.Infof(log.ConfigMgr, "End date: %v", c.DataSettings.EndDate.Format(common.SimpleTimeFormatWithTimezone))
	}
	log.Infof(log.ConfigMgr, "Start index: %d", c.RunSettings.StartIndex)
	mode := c.RunSettings.PNLMode
	if mode == "" {
		mode = runner.Realised.String()
	}
	log.Infof(log.ConfigMgr, "P/L mode: %s", mode)
	if c.MetricsSettings.Enabled {
		log.Infof(log.ConfigMgr, "Metrics listening on: %s", c.MetricsSettings.ListenAddress)
	}
	log.Info(log.ConfigMgr, "-------------------------------------------------------------")
}
