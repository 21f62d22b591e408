package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/signaler"
	"github.com/urfave/cli/v2"
)

var (
	configPath string
	dataDir    string
	outputPath string
)

func main() {
	app := cli.NewApp()
	app.Name = "papertrader"
	app.Usage = "replays a price series through a strategy against a paper spot and margin ledger"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "datadir",
			Usage:       "the directory holding the sqlite database and log files, defaults to " + common.GetDefaultDataDir(runtime.GOOS),
			Destination: &dataDir,
		},
	}
	app.Commands = []*cli.Command{
		runCommand,
		stepCommand,
		strategiesCommand,
		seedCommand,
	}

	ctx, cancel := signaler.WithInterrupt(context.Background())
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if errClose := log.CloseLogger(); errClose != nil {
		fmt.Fprintf(os.Stderr, "unable to close logger: %v\n", errClose)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join("config", "examples", "dca-sine-wave.json")
	}
	return filepath.Join(wd, "config", "examples", "dca-sine-wave.json")
}
