package metrics

import (
	"math"

	da "github.com/salcc/iGo/pkg/datastructure"
)

// Metric is a weight for every edge of a turn graph. the graph topology is shared, the weights are owned.
// a Metric handed to a search must not be modified afterwards.
type Metric struct {
	weights []float64
}

// NewMetric starts from the static weights of the turn graph.
func NewMetric(tg *da.TurnGraph) *Metric {
	return &Metric{weights: tg.GetWeights()}
}

func (met *Metric) Clone() *Metric {
	weights := make([]float64, len(met.weights))
	copy(weights, met.weights)
	return &Metric{weights: weights}
}

func (met *Metric) GetWeight(e da.Index) float64 {
	return met.weights[e]
}

func (met *Metric) SetWeight(e da.Index, weight float64) {
	met.weights[e] = weight
}

func (met *Metric) NumberOfWeights() int {
	return len(met.weights)
}

// NumberOfClosedEdges counts edges with infinite weight.
func (met *Metric) NumberOfClosedEdges() int {
	closed := 0
	for _, w := range met.weights {
		if math.IsInf(w, 1) {
			closed++
		}
	}
	return closed
}
