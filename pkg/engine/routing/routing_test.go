package routing

import (
	"errors"
	"math"
	"testing"

	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/costfunction"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/metrics"
	"github.com/salcc/iGo/pkg/spatialindex"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pointA = da.RawPoint{ID: 1, Lat: 41.3870, Lon: 2.1700}
	pointB = da.RawPoint{ID: 2, Lat: 41.3879, Lon: 2.1700}
	pointC = da.RawPoint{ID: 3, Lat: 41.3874, Lon: 2.1710}

	coordA = geo.NewCoordinate(pointA.Lat, pointA.Lon)
	coordB = geo.NewCoordinate(pointB.Lat, pointB.Lon)
	coordC = geo.NewCoordinate(pointC.Lat, pointC.Lon)
)

func triangleSegments() []da.RawSegment {
	return []da.RawSegment{
		{SegmentID: 100, From: pointA, To: pointB, Length: 100, Bearing: 0},
		{SegmentID: 101, From: pointB, To: pointA, Length: 100, Bearing: 180},
		{SegmentID: 102, From: pointB, To: pointC, Length: 100, Bearing: 120},
		{SegmentID: 103, From: pointC, To: pointB, Length: 100, Bearing: 300},
		{SegmentID: 104, From: pointC, To: pointA, Length: 100, Bearing: 240},
		{SegmentID: 105, From: pointA, To: pointC, Length: 100, Bearing: 60},
	}
}

func build(t *testing.T, raw []da.RawSegment, reduce bool) (*da.TurnGraph, *metrics.Metric, *spatialindex.Rtree) {
	t.Helper()
	rn, err := da.NewRoadNetwork(raw)
	require.NoError(t, err)
	if reduce {
		require.NoError(t, rn.ReduceToMainComponent())
	}
	cf := costfunction.NewTimeCostFunction()
	rn.AssignBaseWeights(cf)
	tg := da.ExpandIntersections(rn, cf)

	rt := spatialindex.NewRtree()
	rt.Build(rn, 0.05, zap.NewNop())
	return tg, metrics.NewMetric(tg), rt
}

func closeStreet(t *testing.T, tg *da.TurnGraph, metric *metrics.Metric, u, v da.Index) {
	t.Helper()
	e, ok := tg.StreetEdgeBetween(u, v)
	require.True(t, ok)
	metric.SetWeight(e, math.Inf(1))
}

func TestFindPathDirect(t *testing.T) {
	tg, metric, rt := build(t, triangleSegments(), true)

	src := geo.NewCoordinate(41.38701, 2.17001)
	dst := geo.NewCoordinate(41.38741, 2.17099)
	res, err := FindPath(tg, metric, rt, src, dst)
	require.NoError(t, err)

	require.True(t, res.Found)
	assert.Equal(t, pkg.PATH_FOUND, res.Reason)
	assert.InDelta(t, 12.0, res.TravelTime, 1e-9)
	assert.InDelta(t, 100.0, res.Distance, 1e-9)
	assert.Equal(t, []da.Index{0, 2}, res.Intersections)
	assert.Equal(t, []geo.Coordinate{src, coordA, coordC, dst}, res.Coordinates)

	require.Len(t, res.Nodes, 4)
	assert.Equal(t, tg.SourceOf(0), res.Nodes[0])
	assert.Equal(t, tg.SinkOf(2), res.Nodes[3])
	assert.Equal(t, pkg.EXIT, tg.GetNode(res.Nodes[1]).GetKind())
	assert.Equal(t, pkg.ENTRY, tg.GetNode(res.Nodes[2]).GetKind())
}

func TestFindPathDetour(t *testing.T) {
	tg, metric, rt := build(t, triangleSegments(), true)
	overlay := metric.Clone()
	closeStreet(t, tg, overlay, 0, 2)

	res, err := FindPath(tg, overlay, rt, coordA, coordC)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []da.Index{0, 1, 2}, res.Intersections)
	assert.InDelta(t, 24+costfunction.TurnCost(0, 120), res.TravelTime, 1e-9)
	assert.InDelta(t, 200.0, res.Distance, 1e-9)

	// the overlay is not shared with the base metric
	direct, err := FindPath(tg, metric, rt, coordA, coordC)
	require.NoError(t, err)
	assert.Equal(t, []da.Index{0, 2}, direct.Intersections)
}

func TestFindPathBlocked(t *testing.T) {
	tg, metric, rt := build(t, triangleSegments(), true)
	closeStreet(t, tg, metric, 0, 1)
	closeStreet(t, tg, metric, 0, 2)

	res, err := FindPath(tg, metric, rt, coordA, coordC)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, pkg.NO_PATH_BLOCKED, res.Reason)
	assert.Empty(t, res.Coordinates)

	// leaving from elsewhere is still possible
	res, err = FindPath(tg, metric, rt, coordB, coordA)
	require.NoError(t, err)
	assert.True(t, res.Found)
}

func TestFindPathBlockedTwoNodes(t *testing.T) {
	tg, metric, rt := build(t, []da.RawSegment{
		{SegmentID: 1, From: pointA, To: pointB, Length: 100, Bearing: 0},
		{SegmentID: 2, From: pointB, To: pointA, Length: 100, Bearing: 180},
	}, true)
	closeStreet(t, tg, metric, 0, 1)

	res, err := FindPath(tg, metric, rt, coordA, coordB)
	require.NoError(t, err)
	assert.Equal(t, pkg.NO_PATH_BLOCKED, res.Reason)

	res, err = FindPath(tg, metric, rt, coordB, coordA)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.InDelta(t, 12.0, res.TravelTime, 1e-9)
}

func TestFindPathBlockedSingleStreet(t *testing.T) {
	// a single closed street, not reduced
	tg, metric, rt := build(t, []da.RawSegment{
		{SegmentID: 1, From: pointA, To: pointB, Length: 100, Bearing: 0},
	}, false)
	closeStreet(t, tg, metric, 0, 1)

	res, err := FindPath(tg, metric, rt, coordA, coordB)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, pkg.NO_PATH_BLOCKED, res.Reason)
}

func TestFindPathDisconnected(t *testing.T) {
	// one-way street without reduction: nothing leaves B
	tg, metric, rt := build(t, []da.RawSegment{
		{SegmentID: 1, From: pointA, To: pointB, Length: 100, Bearing: 0},
	}, false)

	res, err := FindPath(tg, metric, rt, coordB, coordA)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, pkg.NO_PATH_DISCONNECTED, res.Reason)

	res, err = FindPath(tg, metric, rt, coordA, coordB)
	require.NoError(t, err)
	assert.True(t, res.Found)
}

func TestFindPathTrivial(t *testing.T) {
	tg, metric, rt := build(t, triangleSegments(), true)

	src := geo.NewCoordinate(41.38702, 2.17)
	dst := geo.NewCoordinate(41.38698, 2.17)
	res, err := FindPath(tg, metric, rt, src, dst)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 0.0, res.TravelTime)
	assert.Equal(t, []geo.Coordinate{src, coordA, dst}, res.Coordinates)
	assert.Equal(t, []da.Index{0}, res.Intersections)
}

func TestFindPathDeterministic(t *testing.T) {
	tg, metric, rt := build(t, triangleSegments(), true)

	first, err := FindPath(tg, metric, rt, coordB, coordC)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := FindPath(tg, metric, rt, coordB, coordC)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

type failingResolver struct{}

func (failingResolver) Nearest(lat, lon float64) (da.Index, error) {
	return da.INVALID_INDEX, spatialindex.ErrEmptyGraph
}

func TestFindPathResolverError(t *testing.T) {
	tg, metric, _ := build(t, triangleSegments(), true)
	_, err := FindPath(tg, metric, failingResolver{}, coordA, coordB)
	assert.True(t, errors.Is(err, spatialindex.ErrEmptyGraph))
}

func TestShortestPathByLength(t *testing.T) {
	raw := triangleSegments()
	// make A->C longer than going round through B
	raw[5].Length = 250
	tg, _, _ := build(t, raw, true)
	rn := tg.GetNetwork()

	path, ok := ShortestPathByLength(rn, 0, 2)
	require.True(t, ok)
	assert.Equal(t, []da.Index{0, 1, 2}, path)

	path, ok = ShortestPathByLength(rn, 2, 0)
	require.True(t, ok)
	assert.Equal(t, []da.Index{2, 0}, path)

	path, ok = ShortestPathByLength(rn, 1, 1)
	require.True(t, ok)
	assert.Equal(t, []da.Index{1}, path)
}

func TestBuildHighwayPaths(t *testing.T) {
	tg, _, rt := build(t, triangleSegments(), true)

	highways := []traffic.Highway{
		{WayID: 1, Coordinates: []geo.Coordinate{coordA, coordC}},
		{WayID: 2, Coordinates: []geo.Coordinate{coordA, coordB, coordC}},
		{WayID: 3, Coordinates: []geo.Coordinate{coordA, geo.NewCoordinate(41.38701, 2.17)}},
		{WayID: 4, Coordinates: []geo.Coordinate{coordB}},
		{WayID: 5, Coordinates: []geo.Coordinate{coordC, coordC, coordB}},
	}

	paths := BuildHighwayPaths(tg.GetNetwork(), rt, highways, 3, zap.NewNop())
	assert.Equal(t, da.HighwayPaths{
		1: {0, 2},
		2: {0, 1, 2},
		5: {2, 1},
	}, paths)
}
