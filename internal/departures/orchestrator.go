// Package departures drives the two-step Geofox pipeline: resolve a station
// name, then fetch and normalize its departure list.
package departures

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hvv-tools/departureboard/internal/geofox"
	"github.com/hvv-tools/departureboard/internal/logging"
	"github.com/hvv-tools/departureboard/internal/models"
)

const (
	// OperationDeparture is the only supported operation.
	OperationDeparture = "departure"

	DefaultMaxResults    = 5
	DefaultMaxTimeOffset = 30
)

// Transit is the provider surface the orchestrator depends on. *geofox.Client
// implements it.
type Transit interface {
	ResolveStation(ctx context.Context, q geofox.StationQuery, creds geofox.Credentials) (geofox.ResolvedStation, error)
	ListDepartures(ctx context.Context, q geofox.DepartureQuery, creds geofox.Credentials) (geofox.DepartureList, error)
}

// Request is one logical departure lookup as supplied by the host.
type Request struct {
	Operation     string
	Station       string
	City          string
	Modes         map[string]bool
	MaxResults    int
	MaxTimeOffset int
	Credentials   geofox.Credentials
	// Timeout bounds each provider call. Zero leaves the client's own timeout.
	Timeout time.Duration
}

// Success is the normalized departure board.
type Success struct {
	Station       string             `json:"station"`
	RequestedTime time.Time          `json:"requestedTime"`
	Departures    []models.Departure `json:"departures"`
}

// Result holds exactly one of Success or Failure.
type Result struct {
	Success *Success        `json:"success,omitempty"`
	Failure *geofox.Failure `json:"failure,omitempty"`
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Success != nil
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

type state int

const (
	stateResolvingStation state = iota
	stateFetchingDepartures
	stateDone
)

func (s state) String() string {
	switch s {
	case stateResolvingStation:
		return "resolving_station"
	case stateFetchingDepartures:
		return "fetching_departures"
	default:
		return "done"
	}
}

// Orchestrator runs departure lookups. It keeps no per-run state, so one
// instance serves concurrent runs.
type Orchestrator struct {
	transit  Transit
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithLocation sets the zone the requested time is expressed in.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		if loc != nil {
			o.location = loc
		}
	}
}

// New creates an Orchestrator over transit.
func New(transit Transit, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transit:  transit,
		logger:   slog.Default(),
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the pipeline and never returns a partial success.
func (o *Orchestrator) Run(ctx context.Context, req Request) Result {
	success, err := o.Departures(ctx, req)
	if err != nil {
		return Result{Failure: geofox.AsFailure(err)}
	}
	return Result{Success: success}
}

// Departures is Run with a conventional error return. Errors are always
// *geofox.Failure.
func (o *Orchestrator) Departures(ctx context.Context, req Request) (*Success, error) {
	logger := logging.FromContextOr(ctx, o.logger)

	if err := validateRequest(req); err != nil {
		o.enter(logger, stateDone, slog.String("kind", string(geofox.KindConfiguration)))
		return nil, err
	}

	o.enter(logger, stateResolvingStation, slog.String("station", req.Station))
	station, err := o.resolve(ctx, req)
	if err != nil {
		o.fail(logger, stateResolvingStation, err)
		return nil, err
	}
	if req.City != "" && !strings.EqualFold(req.City, station.City) {
		logging.LogOperation(logger, "station_city_corrected",
			slog.String("hint", req.City),
			slog.String("city", station.City),
			slog.String("component", "departures"))
	}

	query := o.buildQuery(req, station)
	o.enter(logger, stateFetchingDepartures,
		slog.String("station_id", station.ID),
		slog.Int("service_types", len(query.ServiceTypes)))

	list, err := o.fetch(ctx, req, query)
	if err != nil {
		o.fail(logger, stateFetchingDepartures, err)
		return nil, err
	}

	success := &Success{
		Station:       station.Name,
		RequestedTime: query.RequestedTime,
		Departures:    normalize(list.Departures),
	}
	o.enter(logger, stateDone, slog.Int("departures", len(success.Departures)))
	return success, nil
}

// ResolveStation runs only the first step of the pipeline.
func (o *Orchestrator) ResolveStation(ctx context.Context, req Request) (geofox.ResolvedStation, error) {
	if err := validateRequest(req); err != nil {
		return geofox.ResolvedStation{}, err
	}
	return o.resolve(ctx, req)
}

func (o *Orchestrator) resolve(ctx context.Context, req Request) (geofox.ResolvedStation, error) {
	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()
	return o.transit.ResolveStation(ctx, geofox.NewStationQuery(req.Station, req.City), req.Credentials)
}

func (o *Orchestrator) fetch(ctx context.Context, req Request, q geofox.DepartureQuery) (geofox.DepartureList, error) {
	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()
	return o.transit.ListDepartures(ctx, q, req.Credentials)
}

func (o *Orchestrator) buildQuery(req Request, station geofox.ResolvedStation) geofox.DepartureQuery {
	maxResults := req.MaxResults
	if maxResults < 1 {
		maxResults = DefaultMaxResults
	}
	maxTimeOffset := req.MaxTimeOffset
	if maxTimeOffset <= 0 {
		maxTimeOffset = DefaultMaxTimeOffset
	}

	return geofox.DepartureQuery{
		Station:       station,
		ServiceTypes:  geofox.FlagsToTags(req.Modes),
		MaxResults:    maxResults,
		MaxTimeOffset: maxTimeOffset,
		// the provider only accepts minute precision
		RequestedTime: o.now().In(o.location).Truncate(time.Minute),
		UseRealtime:   true,
	}
}

func (o *Orchestrator) enter(logger *slog.Logger, s state, attrs ...slog.Attr) {
	attrs = append([]slog.Attr{slog.String("state", s.String()), slog.String("component", "departures")}, attrs...)
	logging.LogOperation(logger, "departures_state", attrs...)
}

func (o *Orchestrator) fail(logger *slog.Logger, from state, err error) {
	f := geofox.AsFailure(err)
	logger.Warn("departures_failed",
		slog.String("state", from.String()),
		slog.String("kind", string(f.Kind)),
		slog.String("message", f.Message),
		slog.String("component", "departures"))
}

// normalize converts delays and keeps provider order.
func normalize(in []geofox.Departure) []models.Departure {
	out := make([]models.Departure, 0, len(in))
	for _, d := range in {
		out = append(out, models.Departure{
			Line:          d.Line,
			Direction:     d.Direction,
			ScheduledTime: d.ScheduledTime,
			DelayMinutes:  DelayMinutes(d.DelaySeconds),
			ServiceType:   d.ServiceType,
		})
	}
	return out
}

// DelayMinutes converts a positive delay in seconds to minutes. Zero and
// negative values are returned unchanged.
func DelayMinutes(seconds int) float64 {
	if seconds > 0 {
		return float64(seconds) / 60
	}
	return float64(seconds)
}

func validateRequest(req Request) error {
	op := strings.ToLower(strings.TrimSpace(req.Operation))
	if op != "" && op != OperationDeparture {
		return &geofox.Failure{
			Kind:    geofox.KindConfiguration,
			Message: "unsupported operation " + strconv.Quote(req.Operation),
		}
	}
	if strings.TrimSpace(req.Station) == "" {
		return &geofox.Failure{Kind: geofox.KindConfiguration, Message: "station name is empty"}
	}
	return req.Credentials.Validate()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
