package costfunction

import (
	"math"

	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/geo"
)

/*
TurnCost. seconds spent turning from a street with bearing incomingBearing onto a street with bearing
outgoingBearing.

	delta = outgoing - incoming, normalized into (-180, 180]
	cost  = exp(|delta|/45) - 1      if |delta| < 50
	      = ln((|delta| - 45)^2)     otherwise

left turns sharper than 15 degrees (delta < -15) are charged 1.5 times.
*/
func TurnCost(incomingBearing, outgoingBearing float64) float64 {
	delta := geo.NormalizeBearingDelta(outgoingBearing - incomingBearing)

	sideFactor := 1.0
	if delta < pkg.LEFT_TURN_THRESHOLD {
		sideFactor = pkg.LEFT_TURN_SIDE_FACTOR
	}

	magnitude := math.Abs(delta)

	var cost float64
	if magnitude < pkg.TURN_COST_BREAKPOINT {
		cost = math.Exp(magnitude/pkg.TURN_COST_EXP_SCALE) - 1
	} else {
		d := magnitude - pkg.TURN_COST_LOG_OFFSET
		cost = math.Log(d * d)
	}

	return cost * sideFactor
}
