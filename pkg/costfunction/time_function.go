package costfunction

import (
	"github.com/salcc/iGo/pkg"
)

type TimeFunction struct {
	defaultSpeed float64 // km/h
}

func NewTimeCostFunction() *TimeFunction {
	return &TimeFunction{defaultSpeed: pkg.DEFAULT_SPEED_KMH}
}

func NewTimeCostFunctionWithDefaultSpeed(defaultSpeed float64) *TimeFunction {
	if defaultSpeed <= 0 {
		defaultSpeed = pkg.DEFAULT_SPEED_KMH
	}
	return &TimeFunction{defaultSpeed: defaultSpeed}
}

// GetWeight. travel time in seconds: length (m) / speed (m/s). speed falls back to the default when absent.
func (tf *TimeFunction) GetWeight(e EdgeAttributes) float64 {
	speed := e.GetSpeed()
	if speed <= 0 {
		speed = tf.defaultSpeed
	}
	return e.GetLength() / (speed * pkg.KMH_TO_MS)
}

func (tf *TimeFunction) GetTurnCost(incomingBearing, outgoingBearing float64) float64 {
	return TurnCost(incomingBearing, outgoingBearing)
}
