package geofox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hvv-tools/departureboard/internal/logging"
)

const (
	// DefaultEndpoint is the public GTI base URL.
	DefaultEndpoint = "https://gti.geofox.de/gti/public"
	// DefaultTimeout bounds a single call when no other timeout is configured.
	DefaultTimeout = 10 * time.Second

	operationCheckName     = "checkName"
	operationDepartureList = "departureList"

	maxResponseBytes = 4 << 20
)

// Client issues signed calls against the GTI API. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	location   *time.Location
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLocation sets the zone used to format and parse provider times.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithLogger sets the logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for endpoint, or DefaultEndpoint when empty.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		location:   time.UTC,
		logger:     slog.Default(),
	}
	if loc, err := LoadLocation(DefaultTimezone); err == nil {
		c.location = loc
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the zone provider times are interpreted in.
func (c *Client) Location() *time.Location {
	return c.location
}

// ResolveStation maps a free text station name to the provider's first
// candidate. A non-empty provider city supersedes the query's city hint.
func (c *Client) ResolveStation(ctx context.Context, q StationQuery, creds Credentials) (ResolvedStation, error) {
	coordinateType := q.CoordinateType
	if coordinateType == "" {
		coordinateType = CoordinateTypeEPSG4326
	}
	req := checkNameRequest{
		CoordinateType: coordinateType,
		MaxList:        1,
		TheName:        sdName{Name: q.Name, Type: typeStation},
	}

	var resp checkNameResponse
	if err := c.post(ctx, operationCheckName, creds, req, &resp); err != nil {
		return ResolvedStation{}, err
	}
	if len(resp.Results) == 0 {
		return ResolvedStation{}, notFoundFailure(q.Name)
	}

	first := resp.Results[0]
	station := ResolvedStation{
		ID:   first.ID,
		Name: first.Name,
		City: q.City,
	}
	if station.Name == "" {
		station.Name = q.Name
	}
	if first.City != "" {
		station.City = first.City
	}
	station.CombinedName = first.CombinedName
	if station.CombinedName == "" {
		station.CombinedName = combinedName(station.Name, station.City)
	}
	return station, nil
}

// ListDepartures fetches the departure list for a resolved station. Entries are
// returned in provider order with delays untouched.
func (c *Client) ListDepartures(ctx context.Context, q DepartureQuery, creds Credentials) (DepartureList, error) {
	req := departureListRequest{
		Station: sdName{
			ID:           q.Station.ID,
			Name:         q.Station.Name,
			City:         q.Station.City,
			CombinedName: q.Station.CombinedName,
			Type:         typeStation,
		},
		ServiceTypes:  serviceTypeFilter(q.ServiceTypes),
		Time:          formatGTITime(q.RequestedTime, c.location),
		MaxList:       q.MaxResults,
		MaxTimeOffset: q.MaxTimeOffset,
		UseRealtime:   q.UseRealtime,
	}

	var resp departureListResponse
	if err := c.post(ctx, operationDepartureList, creds, req, &resp); err != nil {
		return DepartureList{}, err
	}

	reference := q.RequestedTime.In(c.location)
	if resp.Time != nil {
		parsed, err := parseGTITime(*resp.Time, c.location)
		if err != nil {
			return DepartureList{}, &Failure{
				Kind:      KindProvider,
				Operation: operationDepartureList,
				Message:   fmt.Sprintf("%s: invalid reference time: %v", operationDepartureList, err),
				Err:       err,
			}
		}
		reference = parsed
	}

	list := DepartureList{
		ReferenceTime: reference,
		Departures:    make([]Departure, 0, len(resp.Departures)),
	}
	for _, d := range resp.Departures {
		list.Departures = append(list.Departures, Departure{
			Line:          d.Line.Name,
			Direction:     d.Line.Direction,
			ScheduledTime: reference.Add(time.Duration(d.TimeOffset) * time.Minute),
			TimeOffset:    d.TimeOffset,
			DelaySeconds:  d.Delay,
			ServiceType:   classifyLine(d.Line.Type),
		})
	}
	return list, nil
}

// post signs payload, sends it to {endpoint}/{operation} and decodes the reply
// into out.
func (c *Client) post(ctx context.Context, operation string, creds Credentials, payload any, out envelope) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return configurationFailure("%s: encode request: %v", operation, err)
	}
	signature, err := Sign(body, creds.Secret)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+operation, bytes.NewReader(body))
	if err != nil {
		return configurationFailure("%s: build request: %v", operation, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("geofox-auth-type", AuthType)
	req.Header.Set("geofox-auth-user", creds.User)
	req.Header.Set("geofox-auth-signature", signature)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		f := transportFailure(operation, err)
		logging.LogError(c.logger, "geofox request failed", err,
			slog.String("operation", operation),
			slog.String("kind", string(f.Kind)),
			slog.String("request_id", requestID),
			slog.String("component", "geofox_client"))
		return f
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, operation+"_response_body")

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportFailure(operation, err)
	}

	logging.LogOperation(c.logger, "geofox_request",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.String("request_id", requestID),
		slog.String("component", "geofox_client"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var base baseResponse
		if err := json.Unmarshal(data, &base); err != nil {
			base = baseResponse{ErrorText: strings.TrimSpace(string(data))}
		}
		return providerFailure(operation, resp.StatusCode, base)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Failure{
			Kind:      KindProvider,
			Operation: operation,
			Status:    resp.StatusCode,
			Message:   fmt.Sprintf("%s: decode response: %v", operation, err),
			Err:       err,
		}
	}
	if base := out.base(); base.ReturnCode != "" && base.ReturnCode != returnCodeOK {
		return providerFailure(operation, resp.StatusCode, base)
	}
	return nil
}

func combinedName(name, city string) string {
	if city == "" {
		return name
	}
	return name + ", " + city
}
