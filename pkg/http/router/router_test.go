package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/salcc/iGo/pkg/customizer"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/http/usecases"
	"github.com/salcc/iGo/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRoutingService struct {
	route *usecases.Route
	err   error
	panic bool
}

func (m *mockRoutingService) ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (*usecases.Route, error) {
	if m.panic {
		panic("boom")
	}
	return m.route, m.err
}

func (m *mockRoutingService) NearestIntersection(lat, lon float64) (geo.Coordinate, error) {
	return geo.NewCoordinate(41.387, 2.17), m.err
}

const routeQuery = "/api/computeRoutes?origin_lat=41.387&origin_lon=2.17&destination_lat=41.3874&destination_lon=2.171"

func serve(t *testing.T, svc *mockRoutingService, limiter *Limiter, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	h := NewAPI(zap.NewNop()).Handler(svc, limiter)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	body := map[string]json.RawMessage{}
	if rec.Code == http.StatusOK && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestComputeRoutes(t *testing.T) {
	builtAt := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockRoutingService{route: &usecases.Route{
		Found:             true,
		TravelTime:        12,
		Distance:          100,
		Polyline:          "abc",
		Coordinates:       []geo.Coordinate{geo.NewCoordinate(41.387, 2.17), geo.NewCoordinate(41.3874, 2.171)},
		CongestionBuiltAt: builtAt,
	}}

	rec, body := serve(t, svc, nil, routeQuery)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var data struct {
		Found       bool             `json:"found"`
		Eta         float64          `json:"eta"`
		Distance    float64          `json:"distance"`
		Path        string           `json:"path"`
		Coordinates []geo.Coordinate `json:"coordinates"`
		BuiltAt     time.Time        `json:"congestion_built_at"`
	}
	require.NoError(t, json.Unmarshal(body["data"], &data))
	assert.True(t, data.Found)
	assert.Equal(t, 12.0, data.Eta)
	assert.Equal(t, 100.0, data.Distance)
	assert.Equal(t, "abc", data.Path)
	assert.Len(t, data.Coordinates, 2)
	assert.True(t, builtAt.Equal(data.BuiltAt))
}

func TestComputeRoutesNoPath(t *testing.T) {
	svc := &mockRoutingService{route: &usecases.Route{Found: false, Reason: "blocked"}}

	rec, body := serve(t, svc, nil, routeQuery)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Found  bool   `json:"found"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(body["data"], &data))
	assert.False(t, data.Found)
	assert.Equal(t, "blocked", data.Reason)
}

func TestComputeRoutesErrors(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "missing parameter", target: "/api/computeRoutes?origin_lat=41.387", status: http.StatusBadRequest},
		{
			name:   "latitude out of range",
			target: "/api/computeRoutes?origin_lat=141.387&origin_lon=2.17&destination_lat=41.3874&destination_lon=2.171",
			status: http.StatusBadRequest,
		},
		{
			name:   "out of bounds",
			target: routeQuery,
			err:    util.WrapErrorf(usecases.ErrOutOfBounds, util.ErrBadParamInput, "origin"),
			status: http.StatusBadRequest,
		},
		{
			name:   "stale congestion",
			target: routeQuery,
			err:    util.WrapErrorf(customizer.ErrStaleCongestion, util.ErrInternalServerError, "refresh"),
			status: http.StatusServiceUnavailable,
		},
		{name: "timeout", target: routeQuery, err: context.DeadlineExceeded, status: http.StatusGatewayTimeout},
		{name: "not found", target: "/api/nope", status: http.StatusNotFound},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(t, &mockRoutingService{err: tt.err}, nil, tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestNearest(t *testing.T) {
	rec, body := serve(t, &mockRoutingService{}, nil, "/api/nearest?lat=41.3871&lon=2.1701")
	require.Equal(t, http.StatusOK, rec.Code)

	var data geo.Coordinate
	require.NoError(t, json.Unmarshal(body["data"], &data))
	assert.Equal(t, geo.NewCoordinate(41.387, 2.17), data)
}

func TestHeartbeatAndRecover(t *testing.T) {
	rec, _ := serve(t, &mockRoutingService{}, nil, "/api/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(t, &mockRoutingService{panic: true}, nil, routeQuery)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimit(t *testing.T) {
	svc := &mockRoutingService{route: &usecases.Route{Found: true}}
	h := NewAPI(zap.NewNop()).Handler(svc, NewLimiter(1, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, routeQuery, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, routeQuery, nil)
	req.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLimiterSweepsIdleClients(t *testing.T) {
	l := NewLimiter(10, 10)
	t0 := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, l.allow("10.0.0.1", t0))
	assert.Equal(t, t0, l.lastSweep)

	// within the sweep interval nothing is scanned
	assert.True(t, l.allow("10.0.0.2", t0.Add(30*time.Second)))
	assert.Equal(t, t0, l.lastSweep)

	assert.True(t, l.allow("10.0.0.2", t0.Add(2*time.Minute)))
	assert.Equal(t, t0.Add(2*time.Minute), l.lastSweep)
	assert.Len(t, l.clients, 2)

	assert.True(t, l.allow("10.0.0.2", t0.Add(3*time.Minute+30*time.Second)))
	assert.Len(t, l.clients, 1)
	assert.NotContains(t, l.clients, "10.0.0.1")
}
