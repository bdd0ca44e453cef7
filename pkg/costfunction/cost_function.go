package costfunction

type EdgeAttributes interface {
	GetLength() float64
	GetSpeed() float64
}

type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
	GetTurnCost(incomingBearing, outgoingBearing float64) float64
}
