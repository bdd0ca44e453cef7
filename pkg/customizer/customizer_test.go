package customizer

import (
	"math"
	"testing"

	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/costfunction"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCongestion(t *testing.T) {
	tg, base := triangle(t)

	ab, ok := tg.StreetEdgeBetween(0, 1)
	require.True(t, ok)
	bc, ok := tg.StreetEdgeBetween(1, 2)
	require.True(t, ok)
	ca, ok := tg.StreetEdgeBetween(2, 0)
	require.True(t, ok)

	testCases := []struct {
		name         string
		highwayPaths da.HighwayPaths
		congestions  map[int64]traffic.Congestion
		expected     map[da.Index]float64
	}{
		{
			name:         "single reading",
			highwayPaths: da.HighwayPaths{1: {0, 1, 2}},
			congestions:  map[int64]traffic.Congestion{1: reading(1, pkg.DENSE)},
			expected: map[da.Index]float64{
				ab: 12 * costfunction.CongestionFactor(3),
				bc: 12 * costfunction.CongestionFactor(3),
				ca: 12,
			},
		},
		{
			name:         "no data counts as very fluid",
			highwayPaths: da.HighwayPaths{1: {0, 1}},
			congestions:  map[int64]traffic.Congestion{1: reading(1, pkg.NO_DATA)},
			expected:     map[da.Index]float64{ab: 12},
		},
		{
			name:         "readings on one street are averaged",
			highwayPaths: da.HighwayPaths{1: {0, 1}, 2: {0, 1}},
			congestions: map[int64]traffic.Congestion{
				1: reading(1, pkg.FLUID),
				2: reading(2, pkg.VERY_DENSE),
			},
			expected: map[da.Index]float64{ab: 12 * costfunction.CongestionFactor(3)},
		},
		{
			name:         "any closed reading closes the street",
			highwayPaths: da.HighwayPaths{1: {0, 1}, 2: {0, 1}, 3: {0, 1}},
			congestions: map[int64]traffic.Congestion{
				1: reading(1, pkg.FLUID),
				2: reading(2, pkg.CLOSED),
				3: reading(3, pkg.DENSE),
			},
			expected: map[da.Index]float64{ab: math.Inf(1), bc: 12},
		},
		{
			name:         "unmatched readings and highways are ignored",
			highwayPaths: da.HighwayPaths{1: {0, 1}, 2: {2, 0}},
			congestions: map[int64]traffic.Congestion{
				1:  reading(1, pkg.VERY_DENSE),
				99: reading(99, pkg.CLOSED),
			},
			expected: map[da.Index]float64{ab: 12 * costfunction.CongestionFactor(4), ca: 12},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			overlay := ApplyCongestion(tg, base, tt.highwayPaths, tt.congestions)
			for e, want := range tt.expected {
				if math.IsInf(want, 1) {
					assert.True(t, math.IsInf(overlay.GetWeight(e), 1))
					continue
				}
				assert.InDelta(t, want, overlay.GetWeight(e), 1e-9)
			}
		})
	}
}

func TestApplyCongestionLeavesTopologyAndBase(t *testing.T) {
	tg, base := triangle(t)
	before := base.Clone()

	highwayPaths := da.HighwayPaths{1: {0, 1, 2, 0}}
	congestions := map[int64]traffic.Congestion{1: reading(1, pkg.CLOSED)}

	overlay := ApplyCongestion(tg, base, highwayPaths, congestions)
	assert.Equal(t, 3, overlay.NumberOfClosedEdges())
	assert.Equal(t, before, base)
	assert.Equal(t, 0, base.NumberOfClosedEdges())
	assert.Equal(t, tg.NumberOfEdges(), overlay.NumberOfWeights())

	// only street edges change
	for e := da.Index(0); int(e) < tg.NumberOfEdges(); e++ {
		if tg.GetEdge(e).GetKind() != pkg.STREET_EDGE {
			assert.Equal(t, base.GetWeight(e), overlay.GetWeight(e))
		}
	}
}

func TestApplyCongestionIdempotent(t *testing.T) {
	tg, base := triangle(t)
	highwayPaths := da.HighwayPaths{1: {0, 1}, 2: {1, 2}}
	congestions := map[int64]traffic.Congestion{
		1: reading(1, pkg.DENSE),
		2: reading(2, pkg.VERY_DENSE),
	}

	first := ApplyCongestion(tg, base, highwayPaths, congestions)
	second := ApplyCongestion(tg, base, highwayPaths, congestions)
	assert.Equal(t, first, second)
}
