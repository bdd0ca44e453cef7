package customizer

import (
	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/costfunction"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/metrics"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/salcc/iGo/pkg/util"
)

/*
ApplyCongestion returns a new metric with congestion-adjusted street weights. base is left untouched.

every highway path is a sequence of intersections; each consecutive pair names one street edge. the
current state of the highway's reading is attached to all of its street edges ("no data" counts as
"very fluid"). a street edge with readings gets

	base weight * CongestionFactor(mean(readings))

or +Inf if any reading is CLOSED. street edges without readings keep their base weight. highways without
a reading, readings without a highway and pairs that are not a street are ignored.
*/
func ApplyCongestion(tg *da.TurnGraph, base *metrics.Metric, highwayPaths da.HighwayPaths,
	congestions map[int64]traffic.Congestion) *metrics.Metric {

	readings := make(map[da.Index][]pkg.CongestionState)
	order := make([]da.Index, 0)

	for _, wayID := range highwayPaths.WayIDs() {
		congestion, ok := congestions[wayID]
		if !ok || !congestion.CurrentState.Valid() {
			continue
		}
		state := costfunction.EffectiveState(congestion.CurrentState)

		path := highwayPaths[wayID]
		for i := 0; i+1 < len(path); i++ {
			e, ok := tg.StreetEdgeBetween(path[i], path[i+1])
			if !ok {
				continue
			}
			if _, seen := readings[e]; !seen {
				order = append(order, e)
			}
			readings[e] = append(readings[e], state)
		}
	}

	overlay := base.Clone()
	for _, e := range order {
		states := readings[e]
		if containsClosed(states) {
			overlay.SetWeight(e, pkg.INF_WEIGHT)
			continue
		}
		overlay.SetWeight(e, base.GetWeight(e)*costfunction.CongestionFactor(util.Mean(states)))
	}

	return overlay
}

func containsClosed(states []pkg.CongestionState) bool {
	for _, s := range states {
		if s == pkg.CLOSED {
			return true
		}
	}
	return false
}
