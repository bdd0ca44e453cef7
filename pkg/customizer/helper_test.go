package customizer

import (
	"testing"
	"time"

	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/costfunction"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/metrics"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/stretchr/testify/require"
)

// triangle: intersections 0, 1 and 2 joined both ways by 100 m streets, 12 s each at the default speed.
func triangle(t *testing.T) (*da.TurnGraph, *metrics.Metric) {
	t.Helper()
	a := da.RawPoint{ID: 1, Lat: 41.3870, Lon: 2.1700}
	b := da.RawPoint{ID: 2, Lat: 41.3879, Lon: 2.1700}
	c := da.RawPoint{ID: 3, Lat: 41.3874, Lon: 2.1710}
	raw := []da.RawSegment{
		{SegmentID: 100, From: a, To: b, Length: 100, Bearing: 0},
		{SegmentID: 101, From: b, To: a, Length: 100, Bearing: 180},
		{SegmentID: 102, From: b, To: c, Length: 100, Bearing: 120},
		{SegmentID: 103, From: c, To: b, Length: 100, Bearing: 300},
		{SegmentID: 104, From: c, To: a, Length: 100, Bearing: 240},
		{SegmentID: 105, From: a, To: c, Length: 100, Bearing: 60},
	}
	rn, err := da.NewRoadNetwork(raw)
	require.NoError(t, err)
	require.NoError(t, rn.ReduceToMainComponent())
	cf := costfunction.NewTimeCostFunction()
	rn.AssignBaseWeights(cf)
	tg := da.ExpandIntersections(rn, cf)
	return tg, metrics.NewMetric(tg)
}

func reading(wayID int64, state pkg.CongestionState) traffic.Congestion {
	return traffic.Congestion{
		WayID:        wayID,
		Timestamp:    time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
		CurrentState: state,
		PlannedState: state,
	}
}
