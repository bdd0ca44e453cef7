package datastructure

import "github.com/salcc/iGo/pkg/costfunction"

// AssignBaseWeights sets the static travel time of every segment.
func (rn *RoadNetwork) AssignBaseWeights(cf costfunction.CostFunction) {
	for i := range rn.segments {
		rn.segments[i].weight = cf.GetWeight(&rn.segments[i])
	}
}
