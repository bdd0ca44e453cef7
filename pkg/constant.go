package pkg

import (
	"math"
	"time"
)

// enum of turn graph node kinds
type TurnNodeKind uint8

const (
	ENTRY TurnNodeKind = iota
	EXIT
	SOURCE
	SINK
)

func (k TurnNodeKind) String() string {
	switch k {
	case ENTRY:
		return "entry"
	case EXIT:
		return "exit"
	case SOURCE:
		return "source"
	case SINK:
		return "sink"
	default:
		return "unknown"
	}
}

type TurnEdgeKind uint8

const (
	TERMINAL_EDGE TurnEdgeKind = iota // source -> exit, entry -> sink
	TURN_EDGE                         // entry -> exit of the same intersection
	STREET_EDGE                       // exit -> entry of the adjacent intersection
)

// congestion states as published by the traffic feed
type CongestionState uint8

const (
	NO_DATA CongestionState = iota
	VERY_FLUID
	FLUID
	DENSE
	VERY_DENSE
	CONGESTED
	CLOSED
)

func (s CongestionState) Valid() bool {
	return s <= CLOSED
}

type NoPathReason uint8

const (
	PATH_FOUND NoPathReason = iota
	NO_PATH_DISCONNECTED
	NO_PATH_BLOCKED
)

func (r NoPathReason) String() string {
	switch r {
	case NO_PATH_DISCONNECTED:
		return "disconnected"
	case NO_PATH_BLOCKED:
		return "blocked"
	default:
		return ""
	}
}

var INF_WEIGHT = math.Inf(1)

const (
	DEFAULT_SPEED_KMH      = 30.0
	KMH_TO_MS              = 1000.0 / 3600.0
	EARTH_RADIUS_M         = 6371008.8
	CONGESTION_FRESHNESS   = 5 * time.Minute
	LEFT_TURN_SIDE_FACTOR  = 1.5
	LEFT_TURN_THRESHOLD    = -15.0
	TURN_COST_BREAKPOINT   = 50.0
	TURN_COST_EXP_SCALE    = 45.0
	TURN_COST_LOG_OFFSET   = 45.0
	CONGESTION_CURVE_SCALE = 7.5
)
