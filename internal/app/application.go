package app

import (
	"log/slog"
	"sync/atomic"

	"github.com/hvv-tools/departureboard/internal/appconf"
	"github.com/hvv-tools/departureboard/internal/departures"
	"github.com/hvv-tools/departureboard/internal/geofox"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config       appconf.Config
	Logger       *slog.Logger
	Orchestrator *departures.Orchestrator

	lastResult atomic.Pointer[departures.Result]
}

// New wires a geofox client and orchestrator from cfg.
func New(cfg appconf.Config, logger *slog.Logger) *Application {
	loc := cfg.Location()
	client := geofox.NewClient(cfg.Geofox.Endpoint,
		geofox.WithTimeout(cfg.Timeout()),
		geofox.WithLocation(loc),
		geofox.WithLogger(logger))

	return &Application{
		Config: cfg,
		Logger: logger,
		Orchestrator: departures.New(client,
			departures.WithLocation(loc),
			departures.WithLogger(logger)),
	}
}

// BoardRequest builds an orchestration request from the configured board,
// the way a trigger without overrides would.
func (app *Application) BoardRequest() departures.Request {
	board := app.Config.Board
	return departures.Request{
		Operation:     board.Operation,
		Station:       board.Station,
		City:          board.City,
		Modes:         board.Modes,
		MaxResults:    board.MaxList,
		MaxTimeOffset: board.MaxTimeOffset,
		Credentials:   app.Config.Credentials(),
		Timeout:       app.Config.Timeout(),
	}
}

// RecordResult keeps result as the most recently served board.
func (app *Application) RecordResult(result departures.Result) {
	app.lastResult.Store(&result)
}

// LastResult returns the most recently recorded board, if any.
func (app *Application) LastResult() (departures.Result, bool) {
	r := app.lastResult.Load()
	if r == nil {
		return departures.Result{}, false
	}
	return *r, true
}
