package datastructure

import (
	"testing"

	"github.com/salcc/iGo/pkg/costfunction"
	"github.com/stretchr/testify/require"
)

func point(id int64, lat, lon float64) RawPoint {
	return RawPoint{ID: id, Lat: lat, Lon: lon}
}

func rawSegment(id int64, from, to RawPoint, length, bearing float64, speeds ...float64) RawSegment {
	return RawSegment{SegmentID: id, From: from, To: to, Length: length, Bearing: bearing, SpeedLimits: speeds}
}

// triangleSegments: A, B and C connected both ways by 100 m streets with bearings 0/120/240.
func triangleSegments() []RawSegment {
	a := point(1, 41.3870, 2.1700)
	b := point(2, 41.3879, 2.1700)
	c := point(3, 41.3874, 2.1710)
	return []RawSegment{
		rawSegment(100, a, b, 100, 0),
		rawSegment(101, b, a, 100, 180),
		rawSegment(102, b, c, 100, 120),
		rawSegment(103, c, b, 100, 300),
		rawSegment(104, c, a, 100, 240),
		rawSegment(105, a, c, 100, 60),
	}
}

func buildTurnGraph(t *testing.T, raw []RawSegment) *TurnGraph {
	t.Helper()
	rn, err := NewRoadNetwork(raw)
	require.NoError(t, err)
	require.NoError(t, rn.ReduceToMainComponent())
	cf := costfunction.NewTimeCostFunction()
	rn.AssignBaseWeights(cf)
	return ExpandIntersections(rn, cf)
}
