package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/runner"
	"github.com/thrasher-corp/papertrader/strategies/base"
)

const examplesDir = "examples"

func validConfig() *Config {
	return &Config{
		Nickname:         "test",
		StrategySettings: StrategySettings{Name: "dollarcostaverage"},
		PairSettings: PairSettings{
			ExchangeName: "paper",
			Base:         "btc",
			Quote:        "usdt",
		},
		FundingSettings: FundingSettings{
			SpotQuote:        decimal.NewFromInt(1000),
			MarginCollateral: decimal.NewFromInt(500),
			MaximumLeverage:  decimal.NewFromInt(2),
		},
		EngineSettings: EngineSettings{
			TradingFee:           decimal.NewFromFloat(0.001),
			IncludeFee:           true,
			LiquidationThreshold: decimal.NewFromFloat(0.9),
		},
		DataSettings: DataSettings{
			Source:    SourceSineWave,
			Interval:  feed.OneDay,
			StartDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			SineWave: &SineWaveSettings{
				Points:    30,
				Cycle:     10,
				Mid:       decimal.NewFromInt(100),
				Amplitude: decimal.NewFromInt(10),
			},
		},
	}
}

func TestReadConfigFromFile(t *testing.T) {
	t.Parallel()
	_, err := ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = ReadConfigFromFile(path)
	assert.Error(t, err, "ReadConfigFromFile should error on invalid json")

	cfg, err := ReadConfigFromFile(filepath.Join(examplesDir, "dca-sine-wave.json"))
	require.NoError(t, err, "ReadConfigFromFile must not error")
	assert.Equal(t, "dollarcostaverage", cfg.StrategySettings.Name)
	assert.Equal(t, feed.OneDay, cfg.DataSettings.Interval)
	assert.True(t, decimal.NewFromInt(100000).Equal(cfg.FundingSettings.SpotQuote))
}

func TestLoadConfigBadInterval(t *testing.T) {
	t.Parallel()
	_, err := LoadConfig([]byte(`{"data-settings":{"interval":"3m"}}`))
	assert.Error(t, err, "LoadConfig should reject an unsupported interval")
}

func TestExampleConfigsValidate(t *testing.T) {
	t.Parallel()
	entries, err := os.ReadDir(examplesDir)
	require.NoError(t, err, "ReadDir must not error")
	require.NotEmpty(t, entries, "examples must exist")
	for _, e := range entries {
		e := e
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		t.Run(e.Name(), func(t *testing.T) {
			t.Parallel()
			cfg, err := ReadConfigFromFile(filepath.Join(examplesDir, e.Name()))
			require.NoError(t, err, "ReadConfigFromFile must not error")
			assert.NoError(t, cfg.Validate(), "example config should validate")
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	var c *Config
	assert.ErrorIs(t, c.Validate(), common.ErrNilPointer)
	assert.NoError(t, validConfig().Validate())

	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"no strategy", func(c *Config) { c.StrategySettings.Name = "" }, errNoStrategy},
		{"unknown strategy", func(c *Config) { c.StrategySettings.Name = "moon" }, base.ErrStrategyNotFound},
		{"bad custom settings", func(c *Config) {
			c.StrategySettings.CustomSettings = map[string]any{"every-ticks": "often"}
		}, base.ErrInvalidCustomSettings},
		{"no exchange", func(c *Config) { c.PairSettings.ExchangeName = "" }, errNoExchange},
		{"negative funding", func(c *Config) { c.FundingSettings.SpotQuote = decimal.NewFromInt(-1) }, errInvalidFunding},
		{"no funding", func(c *Config) {
			c.FundingSettings.SpotQuote = decimal.Zero
			c.FundingSettings.MarginCollateral = decimal.Zero
		}, errInvalidFunding},
		{"low leverage", func(c *Config) { c.FundingSettings.MaximumLeverage = decimal.NewFromFloat(0.5) }, errInvalidLeverage},
		{"fee too high", func(c *Config) { c.EngineSettings.TradingFee = decimal.NewFromInt(1) }, errInvalidFee},
		{"negative threshold", func(c *Config) { c.EngineSettings.LiquidationThreshold = decimal.NewFromInt(-1) }, errInvalidThreshold},
		{"threshold above one", func(c *Config) { c.EngineSettings.LiquidationThreshold = decimal.NewFromInt(2) }, errInvalidThreshold},
		{"negative start", func(c *Config) { c.RunSettings.StartIndex = -1 }, errInvalidStartIndex},
		{"unknown source", func(c *Config) { c.DataSettings.Source = "exchange" }, errUnknownDataSource},
		{"database disabled", func(c *Config) { c.DataSettings.Source = SourceDatabase }, errDatabaseRequired},
		{"database unset", func(c *Config) {
			c.DataSettings.Source = SourceDatabase
			c.DatabaseSettings = database.Config{Enabled: true, Driver: database.DBSQLite3}
		}, database.ErrNoDatabaseProvided},
		{"database dates", func(c *Config) {
			c.DataSettings.Source = SourceDatabase
			c.DatabaseSettings = database.Config{Enabled: true, Driver: database.DBSQLite3}
			c.DatabaseSettings.Database = "test.db"
		}, common.ErrDateUnset},
		{"no sine wave", func(c *Config) { c.DataSettings.SineWave = nil }, errInvalidSineWave},
		{"amplitude too large", func(c *Config) { c.DataSettings.SineWave.Amplitude = decimal.NewFromInt(100) }, errInvalidSineWave},
		{"sine wave start", func(c *Config) { c.DataSettings.StartDate = time.Time{} }, common.ErrDateUnset},
		{"metrics address", func(c *Config) { c.MetricsSettings.Enabled = true }, errMetricsNoListenAddr},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := validConfig()
			tc.mutate(c)
			assert.ErrorIs(t, c.Validate(), tc.err)
		})
	}

	c = validConfig()
	c.DataSettings.Interval = feed.Interval(time.Minute)
	assert.Error(t, c.Validate(), "Validate should reject an unsupported interval")

	c = validConfig()
	c.RunSettings.PNLMode = "sometimes"
	assert.Error(t, c.Validate(), "Validate should reject an unknown pnl mode")

	c = validConfig()
	c.PairSettings.Quote = ""
	assert.Error(t, c.Validate(), "Validate should reject an empty quote")
}

func TestLedgerSettings(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.RunSettings.StartIndex = 5
	s, err := c.LedgerSettings()
	require.NoError(t, err, "LedgerSettings must not error")
	assert.Equal(t, int64(5), s.OpeningTick)
	assert.True(t, c.FundingSettings.SpotQuote.Equal(s.SpotQuote))
	assert.True(t, c.FundingSettings.MarginCollateral.Equal(s.MarginCollateral))
	assert.True(t, c.FundingSettings.MaximumLeverage.Equal(s.MaximumLeverage))

	l, err := ledger.New(s)
	require.NoError(t, err, "ledger.New must accept the mapped settings")
	assert.Equal(t, int64(5), l.CurrentTick())

	c.PairSettings.Base = ""
	_, err = c.LedgerSettings()
	assert.Error(t, err, "LedgerSettings should error on an invalid pair")
}

func TestOrderEngineSettings(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.EngineSettings.DeductExitFee = true
	s := c.OrderEngineSettings()
	assert.True(t, c.EngineSettings.TradingFee.Equal(s.TradingFee))
	assert.True(t, s.IncludeFee)
	assert.True(t, s.DeductExitFee)
	assert.True(t, c.EngineSettings.LiquidationThreshold.Equal(s.LiquidationThreshold))
}

func TestRunnerSettings(t *testing.T) {
	t.Parallel()
	c := validConfig()
	s, err := c.RunnerSettings()
	require.NoError(t, err, "RunnerSettings must not error")
	assert.Equal(t, runner.Realised, s.PNLMode)
	assert.Empty(t, s.Observers)

	c.RunSettings.PNLMode = "mtm"
	s, err = c.RunnerSettings(nil)
	require.NoError(t, err, "RunnerSettings must not error")
	assert.Equal(t, runner.MarkToMarket, s.PNLMode)
	assert.Len(t, s.Observers, 1)

	c.RunSettings.PNLMode = "never"
	_, err = c.RunnerSettings()
	assert.Error(t, err, "RunnerSettings should error on an unknown mode")
}

func TestSineWavePoints(t *testing.T) {
	t.Parallel()
	c := validConfig()
	points, err := c.SineWavePoints()
	require.NoError(t, err, "SineWavePoints must not error")
	require.Len(t, points, 30)
	assert.Equal(t, c.DataSettings.StartDate, points[0].Timestamp)
	assert.Equal(t, c.DataSettings.StartDate.Add(24*time.Hour), points[1].Timestamp)
	assert.True(t, decimal.NewFromInt(100).Equal(points[0].Price))

	c.DataSettings.SineWave = nil
	_, err = c.SineWavePoints()
	assert.ErrorIs(t, err, errInvalidSineWave)
}

func TestPrintSetting(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.StrategySettings.CustomSettings = map[string]any{"every-ticks": 2.0}
	c.MetricsSettings = MetricsSettings{Enabled: true, ListenAddress: "127.0.0.1:0"}
	assert.NotPanics(t, c.PrintSetting)
}
