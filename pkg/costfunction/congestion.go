package costfunction

import (
	"math"

	"github.com/salcc/iGo/pkg"
)

// CongestionFactor. multiplier applied to a street's base travel time for a congestion state in [1, 5].
//
//	| 1 |  2   |  3   |  4   |  5   |
//	| 1 | 1.14 | 1.70 | 3.32 | 8.44 |
func CongestionFactor(state float64) float64 {
	return math.Exp((state - 1) * (state - 1) / pkg.CONGESTION_CURVE_SCALE)
}

// EffectiveState maps "no data" to "very fluid" so that it can be averaged.
func EffectiveState(s pkg.CongestionState) pkg.CongestionState {
	if s == pkg.NO_DATA {
		return pkg.VERY_FLUID
	}
	return s
}
