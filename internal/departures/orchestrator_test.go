package departures

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvv-tools/departureboard/internal/geofox"
)

var (
	testCreds    = geofox.Credentials{User: "u", Secret: "k"}
	testLocation = time.FixedZone("CEST", 2*60*60)
	testNow      = time.Date(2026, 10, 19, 14, 29, 42, 0, testLocation)
)

// stubTransit records calls and returns canned responses.
type stubTransit struct {
	mu sync.Mutex

	station    geofox.ResolvedStation
	resolveErr error
	list       geofox.DepartureList
	listErr    error

	resolveCalls int
	listCalls    int
	stationQuery geofox.StationQuery
	departureQ   geofox.DepartureQuery
}

func (s *stubTransit) ResolveStation(_ context.Context, q geofox.StationQuery, creds geofox.Credentials) (geofox.ResolvedStation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveCalls++
	s.stationQuery = q
	return s.station, s.resolveErr
}

func (s *stubTransit) ListDepartures(_ context.Context, q geofox.DepartureQuery, creds geofox.Credentials) (geofox.DepartureList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.departureQ = q
	return s.list, s.listErr
}

func newTestOrchestrator(transit Transit) *Orchestrator {
	return New(transit,
		WithClock(func() time.Time { return testNow }),
		WithLocation(testLocation))
}

func TestRunHappyPath(t *testing.T) {
	ref := time.Date(2026, 10, 19, 14, 29, 0, 0, testLocation)
	stub := &stubTransit{
		station: geofox.ResolvedStation{ID: "Master:100", Name: "Hauptbahnhof", City: "Hamburg", CombinedName: "Hauptbahnhof, Hamburg"},
		list: geofox.DepartureList{
			ReferenceTime: ref,
			Departures: []geofox.Departure{
				{Line: "U3", Direction: "Barmbek", ScheduledTime: ref.Add(2 * time.Minute), DelaySeconds: 180, ServiceType: geofox.ModeSubway},
				{Line: "6", Direction: "Borgweg", ScheduledTime: ref.Add(4 * time.Minute), DelaySeconds: 0, ServiceType: geofox.ModeBus},
			},
		},
	}

	result := newTestOrchestrator(stub).Run(context.Background(), Request{
		Station:     "Hauptbahnhof",
		City:        "Hamburg",
		Credentials: testCreds,
		MaxResults:  3,
		Modes:       map[string]bool{"subway": true, "bus": true},
	})

	require.True(t, result.OK(), "unexpected failure: %v", result.Err())
	assert.Nil(t, result.Failure)
	assert.Equal(t, "Hauptbahnhof", result.Success.Station)
	assert.True(t, time.Date(2026, 10, 19, 14, 29, 0, 0, testLocation).Equal(result.Success.RequestedTime))

	require.Len(t, result.Success.Departures, 2)
	assert.Equal(t, 3.0, result.Success.Departures[0].DelayMinutes)
	assert.Equal(t, 0.0, result.Success.Departures[1].DelayMinutes)
	assert.Equal(t, "U3", result.Success.Departures[0].Line)
	assert.Equal(t, geofox.ModeSubway, result.Success.Departures[0].ServiceType)

	assert.Equal(t, geofox.NewStationQuery("Hauptbahnhof", "Hamburg"), stub.stationQuery)
	assert.Equal(t, stub.station, stub.departureQ.Station)
	assert.Equal(t, []geofox.ModeTag{geofox.ModeBus, geofox.ModeSubway}, stub.departureQ.ServiceTypes)
	assert.Equal(t, 3, stub.departureQ.MaxResults)
	assert.Equal(t, DefaultMaxTimeOffset, stub.departureQ.MaxTimeOffset)
	assert.True(t, stub.departureQ.UseRealtime)
	assert.Equal(t, result.Success.RequestedTime, stub.departureQ.RequestedTime, "reported time is the time sent")
}

func TestRunAppliesDefaults(t *testing.T) {
	stub := &stubTransit{station: geofox.ResolvedStation{ID: "Master:100", Name: "Dammtor"}}

	result := newTestOrchestrator(stub).Run(context.Background(), Request{
		Station:     "Dammtor",
		Credentials: testCreds,
	})
	require.True(t, result.OK())

	assert.Equal(t, DefaultMaxResults, stub.departureQ.MaxResults)
	assert.Equal(t, DefaultMaxTimeOffset, stub.departureQ.MaxTimeOffset)
	assert.Empty(t, stub.departureQ.ServiceTypes, "no flags means no filter")
	assert.NotNil(t, result.Success.Departures)
	assert.Empty(t, result.Success.Departures)
}

func TestRunUsesCorrectedCity(t *testing.T) {
	stub := &stubTransit{station: geofox.ResolvedStation{ID: "Master:200", Name: "Bahnhof", City: "Pinneberg", CombinedName: "Bahnhof, Pinneberg"}}

	result := newTestOrchestrator(stub).Run(context.Background(), Request{
		Station:     "Bahnhof",
		City:        "Hamburg",
		Credentials: testCreds,
	})
	require.True(t, result.OK())

	assert.Equal(t, "Pinneberg", stub.departureQ.Station.City)
	assert.Equal(t, "Bahnhof, Pinneberg", stub.departureQ.Station.CombinedName)
}

func TestRunNotFoundSkipsDepartures(t *testing.T) {
	stub := &stubTransit{resolveErr: &geofox.Failure{Kind: geofox.KindNotFound, Message: `no station found for "Nowhere"`}}

	result := newTestOrchestrator(stub).Run(context.Background(), Request{
		Station:     "Nowhere",
		Credentials: testCreds,
	})

	assert.False(t, result.OK())
	assert.Nil(t, result.Success)
	require.NotNil(t, result.Failure)
	assert.Equal(t, geofox.KindNotFound, result.Failure.Kind)
	assert.Equal(t, 1, stub.resolveCalls)
	assert.Equal(t, 0, stub.listCalls)
}

func TestRunDepartureFailureIsNotPartialSuccess(t *testing.T) {
	providerErr := &geofox.Failure{Kind: geofox.KindProvider, Status: 500, ErrorText: "boom", Message: "departureList: HTTP 500: boom"}
	stub := &stubTransit{
		station: geofox.ResolvedStation{ID: "Master:100", Name: "Hauptbahnhof"},
		listErr: providerErr,
	}

	result := newTestOrchestrator(stub).Run(context.Background(), Request{Station: "Hauptbahnhof", Credentials: testCreds})

	assert.Nil(t, result.Success)
	assert.Same(t, providerErr, result.Failure, "failures pass through unchanged")
}

func TestRunConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"missing secret", Request{Station: "Hauptbahnhof", Credentials: geofox.Credentials{User: "u"}}},
		{"missing user", Request{Station: "Hauptbahnhof", Credentials: geofox.Credentials{Secret: "k"}}},
		{"missing station", Request{Credentials: testCreds}},
		{"route operation", Request{Operation: "route", Station: "Hauptbahnhof", Credentials: testCreds}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubTransit{}
			result := newTestOrchestrator(stub).Run(context.Background(), tt.req)

			require.NotNil(t, result.Failure)
			assert.Equal(t, geofox.KindConfiguration, result.Failure.Kind)
			assert.Equal(t, 0, stub.resolveCalls)
			assert.Equal(t, 0, stub.listCalls)
		})
	}
}

func TestRunExplicitDepartureOperation(t *testing.T) {
	stub := &stubTransit{station: geofox.ResolvedStation{ID: "Master:100", Name: "Hauptbahnhof"}}
	result := newTestOrchestrator(stub).Run(context.Background(), Request{
		Operation:   "Departure",
		Station:     "Hauptbahnhof",
		Credentials: testCreds,
	})
	assert.True(t, result.OK())
}

func TestRunIsIdempotentExceptRequestedTime(t *testing.T) {
	ref := time.Date(2026, 10, 19, 9, 0, 0, 0, testLocation)
	stub := &stubTransit{
		station: geofox.ResolvedStation{ID: "Master:100", Name: "Hauptbahnhof", City: "Hamburg"},
		list: geofox.DepartureList{ReferenceTime: ref, Departures: []geofox.Departure{
			{Line: "S1", Direction: "Wedel", ScheduledTime: ref, DelaySeconds: 90, ServiceType: geofox.ModeSuburbanRail},
		}},
	}

	clock := testNow
	o := New(stub, WithLocation(testLocation), WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	req := Request{Station: "Hauptbahnhof", City: "Hamburg", Credentials: testCreds}

	first := o.Run(context.Background(), req)
	second := o.Run(context.Background(), req)
	require.True(t, first.OK())
	require.True(t, second.OK())

	assert.NotEqual(t, first.Success.RequestedTime, second.Success.RequestedTime)
	first.Success.RequestedTime = time.Time{}
	second.Success.RequestedTime = time.Time{}
	assert.Equal(t, first, second)
	assert.Equal(t, 1.5, first.Success.Departures[0].DelayMinutes)
}

func TestRunConcurrentInvocationsAreIndependent(t *testing.T) {
	stub := &stubTransit{station: geofox.ResolvedStation{ID: "Master:100", Name: "Hauptbahnhof"}}
	o := newTestOrchestrator(stub)

	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.Run(context.Background(), Request{Station: "Hauptbahnhof", Credentials: testCreds})
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.OK())
	}
	assert.Equal(t, 8, stub.resolveCalls)
	assert.Equal(t, 8, stub.listCalls)
}

func TestDelayMinutes(t *testing.T) {
	tests := []struct {
		seconds int
		want    float64
	}{
		{180, 3},
		{90, 1.5},
		{1, 1.0 / 60},
		{0, 0},
		{-60, -60},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DelayMinutes(tt.seconds), "delay %d", tt.seconds)
	}
}

func TestEndToEndWithGeofoxClient(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.ReadAll(r.Body)
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/checkName":
			_, _ = io.WriteString(w, `{"returnCode":"OK","results":[{"id":"Master:100","city":"Hamburg","type":"STATION"}]}`)
		case "/departureList":
			_, _ = io.WriteString(w, `{"returnCode":"OK","time":{"date":"19.10.2026","time":"14:29"},"departures":[
				{"line":{"name":"U1","direction":"Norderstedt Mitte","type":{"simpleType":"TRAIN","shortInfo":"U"}},"timeOffset":1,"delay":180},
				{"line":{"name":"U3","direction":"Wandsbek-Gartenstadt","type":{"simpleType":"TRAIN","shortInfo":"U"}},"timeOffset":3,"delay":0}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := geofox.NewClient(server.URL, geofox.WithLocation(testLocation))
	o := newTestOrchestrator(client)

	result := o.Run(context.Background(), Request{
		Station:     "Hauptbahnhof",
		City:        "Hamburg",
		Credentials: geofox.Credentials{User: "u", Secret: "k"},
		MaxResults:  3,
	})

	require.True(t, result.OK(), "unexpected failure: %v", result.Err())
	assert.Equal(t, "Hauptbahnhof", result.Success.Station)
	require.Len(t, result.Success.Departures, 2)
	assert.Equal(t, 3.0, result.Success.Departures[0].DelayMinutes)
	assert.Equal(t, 0.0, result.Success.Departures[1].DelayMinutes)
	assert.True(t, time.Date(2026, 10, 19, 14, 30, 0, 0, testLocation).Equal(result.Success.Departures[0].ScheduledTime))
	assert.Equal(t, map[string]int{"/checkName": 1, "/departureList": 1}, calls)
}

func TestEndToEndNotFoundNeverListsDepartures(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"returnCode":"OK","results":[]}`)
	}))
	defer server.Close()

	o := newTestOrchestrator(geofox.NewClient(server.URL))
	result := o.Run(context.Background(), Request{Station: "Atlantis", Credentials: testCreds})

	require.NotNil(t, result.Failure)
	assert.Equal(t, geofox.KindNotFound, result.Failure.Kind)
	assert.Equal(t, map[string]int{"/checkName": 1}, calls)
}

func TestEndToEndTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	o := newTestOrchestrator(geofox.NewClient(server.URL))
	result := o.Run(context.Background(), Request{
		Station:     "Hauptbahnhof",
		Credentials: testCreds,
		Timeout:     50 * time.Millisecond,
	})

	require.NotNil(t, result.Failure)
	assert.Equal(t, geofox.KindTimeout, result.Failure.Kind)
}
