package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/common/file"
	"github.com/thrasher-corp/papertrader/database/repository/price"
	"github.com/thrasher-corp/papertrader/feed"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/report"
	"github.com/thrasher-corp/papertrader/runner"
	"github.com/thrasher-corp/papertrader/strategies"
	"github.com/urfave/cli/v2"
)

var configFlag = &cli.StringFlag{
	Name:        "config",
	Aliases:     []string{"c"},
	Usage:       "the run config to load",
	Value:       defaultConfigPath(),
	Destination: &configPath,
}

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "replays the configured price series to the end and prints a summary",
	Action: runAction,
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "writes the run summary as JSON to this path",
			Destination: &outputPath,
		},
		&cli.StringFlag{
			Name:  "metrics-listen",
			Usage: "overrides the metrics listen address and enables metrics",
		},
	},
}

var stepCommand = &cli.Command{
	Name:   "step",
	Usage:  "replays the configured price series one tick per line of input, q quits",
	Action: stepAction,
	Flags:  []cli.Flag{configFlag},
}

var strategiesCommand = &cli.Command{
	Name:   "strategies",
	Usage:  "lists every registered strategy",
	Action: strategiesAction,
}

var seedCommand = &cli.Command{
	Name:   "seed-example",
	Usage:  "writes a synthetic sine wave series for the configured pair into the configured database",
	Action: seedAction,
	Flags: []cli.Flag{
		configFlag,
		&cli.IntFlag{
			Name:  "points",
			Value: 365,
			Usage: "the number of points to write",
		},
		&cli.IntFlag{
			Name:  "cycle",
			Value: 60,
			Usage: "the number of points in one full wave",
		},
		&cli.Float64Flag{
			Name:  "mid",
			Value: 30000,
			Usage: "the price the wave oscillates around",
		},
		&cli.Float64Flag{
			Name:  "amplitude",
			Value: 5000,
			Usage: "the maximum distance from the mid price",
		},
	},
}

func runAction(c *cli.Context) error {
	cfg, dir, err := loadConfig(configPath, dataDir)
	if err != nil {
		return err
	}
	if addr := c.String("metrics-listen"); addr != "" {
		cfg.MetricsSettings.Enabled = true
		cfg.MetricsSettings.ListenAddress = addr
	}
	cfg.PrintSetting()
	s, err := newSession(c.Context, cfg, dir)
	if err != nil {
		return err
	}
	s.serveMetrics(c.Context)
	runErr := s.runner.Run(c.Context)
	if runErr != nil {
		log.Errorf(log.Global, "run stopped: %v", runErr)
	}
	return errors.Join(runErr, summarise(s))
}

func summarise(s *session) error {
	res := s.runner.Results()
	sum, err := report.Calculate(&res, s.ledger)
	if err != nil {
		return err
	}
	sum.PrintResults()
	if outputPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(sum, "", " ")
	if err != nil {
		return err
	}
	if err = file.Write(outputPath, data); err != nil {
		return err
	}
	log.Infof(log.Report, "summary written to %s", outputPath)
	return nil
}

func stepAction(c *cli.Context) error {
	cfg, dir, err := loadConfig(configPath, dataDir)
	if err != nil {
		return err
	}
	s, err := newSession(c.Context, cfg, dir)
	if err != nil {
		return err
	}
	s.serveMetrics(c.Context)
	scanner := bufio.NewScanner(c.App.Reader)
	fmt.Fprintln(c.App.Writer, "press enter to step a tick, q to quit")
	for scanner.Scan() {
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
			break
		}
		out, err := s.runner.Step(c.Context)
		if errors.Is(err, feed.ErrFeedExhausted) {
			fmt.Fprintln(c.App.Writer, "price series exhausted")
			break
		}
		if err != nil {
			return errors.Join(err, summarise(s))
		}
		printOutcome(c, out)
	}
	if err = scanner.Err(); err != nil {
		return err
	}
	return summarise(s)
}

func printOutcome(c *cli.Context, out *runner.TickOutcome) {
	fmt.Fprintf(c.App.Writer, "tick %d %s price %s change %s%%\n",
		out.Tick.Index,
		out.Tick.Timestamp.Format(common.SimpleTimeFormat),
		out.Tick.Price,
		out.Tick.PercentChange.Round(4))
	for i := range out.Orders {
		fmt.Fprintf(c.App.Writer, "\t%s\n", out.Orders[i])
	}
	if out.Liquidation != nil {
		fmt.Fprintf(c.App.Writer, "\tliquidated %s %s at %s, loss %s\n",
			out.Liquidation.Direction, out.Liquidation.Quantity, out.Liquidation.Price, out.Liquidation.Loss)
	}
	fmt.Fprintf(c.App.Writer, "\tpnl %s net %s equity %s\n", out.PNL.Round(8), out.NetPNL.Round(8), out.Equity.Round(8))
}

func strategiesAction(c *cli.Context) error {
	for _, s := range strategies.GetStrategies() {
		fmt.Fprintf(c.App.Writer, "%s\n\t%s\n", s.Name(), s.Description())
	}
	return nil
}

func seedAction(c *cli.Context) (err error) {
	cfg, dir, err := loadConfig(configPath, dataDir)
	if err != nil {
		return err
	}
	pair, err := cfg.Pair()
	if err != nil {
		return err
	}
	start := cfg.DataSettings.StartDate
	if start.IsZero() {
		start = time.Now().UTC().Truncate(24 * time.Hour).AddDate(-1, 0, 0)
	}
	points, err := feed.SineWave(start, cfg.DataSettings.Interval, c.Int("points"), c.Int("cycle"),
		decimal.NewFromFloat(c.Float64("mid")), decimal.NewFromFloat(c.Float64("amplitude")))
	if err != nil {
		return err
	}
	db, err := connectDatabase(cfg, dir)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := db.CloseConnection(); errClose != nil {
			err = errors.Join(err, errClose)
		}
	}()
	if err = price.CreateTable(c.Context, db); err != nil {
		return err
	}
	if err = price.Insert(c.Context, db, cfg.PairSettings.ExchangeName, pair, points); err != nil {
		return err
	}
	log.Infof(log.DatabaseMgr, "seeded %d %s %s points from %s to %s", len(points), cfg.PairSettings.ExchangeName, pair,
		points[0].Timestamp.Format(common.SimpleTimeFormat), points[len(points)-1].Timestamp.Format(common.SimpleTimeFormat))
	return nil
}
