// Command departures runs a single departure lookup and prints the result as
// JSON. It exits with status 1 when the lookup fails.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hvv-tools/departureboard/internal/app"
	"github.com/hvv-tools/departureboard/internal/appconf"
	"github.com/hvv-tools/departureboard/internal/departures"
	"github.com/hvv-tools/departureboard/internal/logging"
)

type options struct {
	configPath    string
	operation     string
	station       string
	city          string
	modes         string
	maxList       int
	maxTimeOffset int
	endpoint      string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yml", "Path to the YAML configuration file")
	flag.StringVar(&opts.operation, "operation", "", "Operation to run (departure)")
	flag.StringVar(&opts.station, "station", "", "Station name (overrides board.station)")
	flag.StringVar(&opts.city, "city", "", "City hint (overrides board.city)")
	flag.StringVar(&opts.modes, "modes", "", "Comma-separated transport modes, e.g. bus,subway")
	flag.IntVar(&opts.maxList, "maxList", 0, "Maximum number of departures")
	flag.IntVar(&opts.maxTimeOffset, "maxTimeOffset", 0, "Departure window in minutes")
	flag.StringVar(&opts.endpoint, "endpoint", "", "Geofox GTI base URL (overrides config)")
	flag.Parse()

	os.Exit(run(context.Background(), opts, os.Stdout, os.Stderr))
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	cfg, err := appconf.Load(opts.configPath, true)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if opts.endpoint != "" {
		cfg.Geofox.Endpoint = opts.endpoint
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	// stdout carries the result, logs go to stderr
	logger := logging.NewLogger(stderr, level, cfg.Logging.Format)

	application := app.New(cfg, logger)
	result := application.Orchestrator.Run(ctx, buildRequest(application, opts))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if !result.OK() {
		return 1
	}
	return 0
}

func buildRequest(application *app.Application, opts options) departures.Request {
	req := application.BoardRequest()
	if opts.operation != "" {
		req.Operation = opts.operation
	}
	if opts.station != "" {
		req.Station = opts.station
	}
	if opts.city != "" {
		req.City = opts.city
	}
	if opts.modes != "" {
		req.Modes = make(map[string]bool)
		for _, m := range strings.Split(opts.modes, ",") {
			if m = strings.TrimSpace(m); m != "" {
				req.Modes[m] = true
			}
		}
	}
	if opts.maxList > 0 {
		req.MaxResults = opts.maxList
	}
	if opts.maxTimeOffset > 0 {
		req.MaxTimeOffset = opts.maxTimeOffset
	}
	return req
}
