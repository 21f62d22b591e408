package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/config"
	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/database/drivers"
	"github.com/thrasher-corp/papertrader/database/repository/price"
	"github.com/thrasher-corp/papertrader/engine"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/ledger"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/metrics"
	"github.com/thrasher-corp/papertrader/runner"
	"github.com/thrasher-corp/papertrader/strategies"
)

// session holds every component of a single run
type session struct {
	cfg       *config.Config
	ledger    *ledger.Ledger
	engine    *engine.Engine
	runner    *runner.Runner
	collector *metrics.Collector
}

// loadConfig reads and validates the run config and applies its logging
// settings. dir falls back to the config data directory, then the default
// data directory
func loadConfig(path, dir string) (*config.Config, string, error) {
	cfg, err := config.ReadConfigFromFile(path)
	if err != nil {
		return nil, "", err
	}
	if dir == "" {
		dir = cfg.DataDirectory
	}
	if dir == "" {
		dir = common.GetDefaultDataDir(runtime.GOOS)
	}
	if err = common.CreateDir(dir); err != nil {
		return nil, "", err
	}
	logCfg := log.GenDefaultSettings()
	if cfg.LoggingSettings != nil {
		logCfg = *cfg.LoggingSettings
	}
	if err = log.SetupGlobalLogger(&logCfg, dir); err != nil {
		return nil, "", err
	}
	if err = cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

// connectDatabase opens the configured database
func connectDatabase(cfg *config.Config, dir string) (*database.Instance, error) {
	db, err := database.NewInstance(&cfg.DatabaseSettings, dir)
	if err != nil {
		return nil, err
	}
	if err = drivers.Connect(db); err != nil {
		return nil, err
	}
	return db, nil
}

// loadPoints returns the price series named by the data settings
func loadPoints(ctx context.Context, cfg *config.Config, dir string) (points []feed.Point, err error) {
	switch cfg.DataSettings.Source {
	case config.SourceSineWave:
		return cfg.SineWavePoints()
	case config.SourceDatabase:
		p, errPair := cfg.Pair()
		if errPair != nil {
			return nil, errPair
		}
		db, errConn := connectDatabase(cfg, dir)
		if errConn != nil {
			return nil, errConn
		}
		defer func() {
			if errClose := db.CloseConnection(); errClose != nil {
				err = errors.Join(err, errClose)
			}
		}()
		return price.Series(ctx, db, cfg.PairSettings.ExchangeName, p, cfg.DataSettings.StartDate, cfg.DataSettings.EndDate)
	}
	return nil, fmt.Errorf("unknown data source %q", cfg.DataSettings.Source)
}

// newSession wires the feed, ledger, order engine, strategy and runner for
// cfg. A metrics collector is attached as a runner observer when enabled
func newSession(ctx context.Context, cfg *config.Config, dir string) (*session, error) {
	points, err := loadPoints(ctx, cfg, dir)
	if err != nil {
		return nil, err
	}
	f, err := feed.NewSeries(points, cfg.RunSettings.StartIndex)
	if err != nil {
		return nil, err
	}
	ls, err := cfg.LedgerSettings()
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(ls)
	if err != nil {
		return nil, err
	}
	e, err := engine.New(l, cfg.OrderEngineSettings())
	if err != nil {
		return nil, err
	}
	strat, err := strategies.LoadStrategyByName(cfg.StrategySettings.Name, cfg.StrategySettings.CustomSettings)
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:    cfg,
		ledger: l,
		engine: e,
	}
	rs, err := cfg.RunnerSettings()
	if err != nil {
		return nil, err
	}
	s.runner, err = runner.New(f, e, l, strat, rs)
	if err != nil {
		return nil, err
	}
	if cfg.MetricsSettings.Enabled {
		s.collector = metrics.New(s.runner.ID().String(), strat.Name())
		s.runner.AddObserver(s.collector)
	}
	log.Infof(log.Global, "loaded %d points, run %s opens at tick %d", len(points), s.runner.ID(), f.Current().Index)
	return s, nil
}

// serveMetrics exposes the collector until ctx is done
func (s *session) serveMetrics(ctx context.Context) {
	if s.collector == nil {
		return
	}
	go func() {
		if err := s.collector.Serve(ctx, s.cfg.MetricsSettings.ListenAddress); err != nil {
			log.Errorf(log.Global, "metrics server: %v", err)
		}
	}()
}
