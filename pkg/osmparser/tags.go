package osmparser

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

var (
	// drivable highway classes
	acceptedHighway = map[string]struct{}{
		"motorway":       {},
		"motorway_link":  {},
		"trunk":          {},
		"trunk_link":     {},
		"primary":        {},
		"primary_link":   {},
		"secondary":      {},
		"secondary_link": {},
		"tertiary":       {},
		"tertiary_link":  {},
		"residential":    {},
		"living_street":  {},
		"unclassified":   {},
		"road":           {},
	}

	// maxspeed unit suffix -> factor to km/h
	speedUnits = map[string]float64{
		"mph":   1.609344,
		"km/h":  1,
		"kmh":   1,
		"kph":   1,
		"knots": 1.852,
	}
)

type direction uint8

const (
	BOTH_WAYS direction = iota
	FORWARD_ONLY
	BACKWARD_ONLY
)

func acceptOsmWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	if _, ok := acceptedHighway[way.Tags.Find("highway")]; !ok {
		return false
	}
	if way.Tags.Find("area") == "yes" {
		return false
	}
	if isRestricted(way.Tags.Find("access")) || isRestricted(way.Tags.Find("motor_vehicle")) ||
		way.Tags.Find("access") == "private" {
		return false
	}
	return true
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

// wayDirection reads oneway, junction and the vehicle:forward/backward family of tags.
func wayDirection(tags osm.Tags) direction {
	forwardBanned := isRestricted(tags.Find("vehicle:forward")) || isRestricted(tags.Find("motor_vehicle:forward"))
	backwardBanned := isRestricted(tags.Find("vehicle:backward")) || isRestricted(tags.Find("motor_vehicle:backward"))

	switch tags.Find("oneway") {
	case "yes", "1", "true":
		return FORWARD_ONLY
	case "-1", "reverse":
		return BACKWARD_ONLY
	case "no", "0", "false":
		return BOTH_WAYS
	}

	switch {
	case forwardBanned && !backwardBanned:
		return BACKWARD_ONLY
	case backwardBanned && !forwardBanned:
		return FORWARD_ONLY
	}

	junction := tags.Find("junction")
	if junction == "roundabout" || junction == "circular" || tags.Find("highway") == "motorway" {
		return FORWARD_ONLY
	}
	return BOTH_WAYS
}

// parseMaxSpeed turns a maxspeed value into km/h. "50;30" gives both values, "30 mph" is converted,
// values without a number ("none", "signals", "walk") give nothing.
func parseMaxSpeed(value string) []float64 {
	speeds := make([]float64, 0)
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		factor := 1.0
		for unit, f := range speedUnits {
			if strings.HasSuffix(part, unit) {
				part = strings.TrimSpace(strings.TrimSuffix(part, unit))
				factor = f
				break
			}
		}

		speed, err := strconv.ParseFloat(part, 64)
		if err != nil || speed <= 0 {
			continue
		}
		speeds = append(speeds, speed*factor)
	}
	return speeds
}
