package geofox

import (
	"log/slog"
	"time"
)

const (
	// CoordinateTypeEPSG4326 is the only coordinate system requested from checkName.
	CoordinateTypeEPSG4326 = "EPSG_4326"

	typeStation  = "STATION"
	returnCodeOK = "OK"
)

// Credentials authenticate every call against the GTI API.
type Credentials struct {
	User   string
	Secret string
}

// Validate fails with a configuration Failure when user or secret is missing.
func (c Credentials) Validate() error {
	if c.User == "" {
		return configurationFailure("geofox user is empty")
	}
	if c.Secret == "" {
		return configurationFailure("geofox secret is empty")
	}
	return nil
}

// LogValue keeps the secret out of every log line.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", c.User),
		slog.String("secret", "[redacted]"),
	)
}

// StationQuery is the input of ResolveStation.
type StationQuery struct {
	Name           string
	City           string
	CoordinateType string
}

// NewStationQuery builds a query for name with an optional city hint.
func NewStationQuery(name, city string) StationQuery {
	return StationQuery{
		Name:           name,
		City:           city,
		CoordinateType: CoordinateTypeEPSG4326,
	}
}

// ResolvedStation is the canonical station returned by checkName.
type ResolvedStation struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	CombinedName string `json:"combinedName"`
}

// DepartureQuery is the input of ListDepartures.
type DepartureQuery struct {
	Station       ResolvedStation
	ServiceTypes  []ModeTag
	MaxResults    int
	MaxTimeOffset int
	RequestedTime time.Time
	UseRealtime   bool
}

// Departure is one entry of a departure list. DelaySeconds is passed through
// exactly as the provider reported it.
type Departure struct {
	Line          string
	Direction     string
	ScheduledTime time.Time
	TimeOffset    int
	DelaySeconds  int
	ServiceType   ModeTag
}

// DepartureList is the decoded departureList response.
type DepartureList struct {
	ReferenceTime time.Time
	Departures    []Departure
}

// sdName is the GTI station descriptor used in both directions.
type sdName struct {
	Name         string `json:"name"`
	City         string `json:"city,omitempty"`
	CombinedName string `json:"combinedName,omitempty"`
	ID           string `json:"id,omitempty"`
	Type         string `json:"type"`
}

type gtiTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type checkNameRequest struct {
	CoordinateType string `json:"coordinateType"`
	MaxList        int    `json:"maxList"`
	TheName        sdName `json:"theName"`
}

type departureListRequest struct {
	Station       sdName   `json:"station"`
	ServiceTypes  []string `json:"serviceTypes,omitempty"`
	Time          gtiTime  `json:"time"`
	MaxList       int      `json:"maxList"`
	MaxTimeOffset int      `json:"maxTimeOffset"`
	UseRealtime   bool     `json:"useRealtime"`
}

type baseResponse struct {
	ReturnCode   string `json:"returnCode"`
	ErrorText    string `json:"errorText,omitempty"`
	ErrorDevInfo string `json:"errorDevInfo,omitempty"`
}

func (b baseResponse) base() baseResponse { return b }

type envelope interface {
	base() baseResponse
}

type checkNameResponse struct {
	baseResponse
	Results []sdName `json:"results"`
}

type lineType struct {
	SimpleType string `json:"simpleType"`
	ShortInfo  string `json:"shortInfo"`
	LongInfo   string `json:"longInfo"`
}

type departureLine struct {
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
	Origin    string   `json:"origin"`
	ID        string   `json:"id"`
	Type      lineType `json:"type"`
}

type rawDeparture struct {
	Line       departureLine `json:"line"`
	TimeOffset int           `json:"timeOffset"`
	Delay      int           `json:"delay"`
}

type departureListResponse struct {
	baseResponse
	Time       *gtiTime       `json:"time"`
	Departures []rawDeparture `json:"departures"`
}
