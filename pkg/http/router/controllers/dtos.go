package controllers

import (
	"time"

	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/http/usecases"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"min=-180,max=180"`
}

type nearestRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type shortestPathResponse struct {
	Found             bool             `json:"found"`
	Reason            string           `json:"reason,omitempty"`
	Eta               float64          `json:"eta"`
	Dist              float64          `json:"distance"`
	Path              string           `json:"path,omitempty"`
	Coordinates       []geo.Coordinate `json:"coordinates,omitempty"`
	Stale             bool             `json:"stale_congestion"`
	CongestionBuiltAt *time.Time       `json:"congestion_built_at,omitempty"`
}

func NewShortestPathResponse(route *usecases.Route) shortestPathResponse {
	resp := shortestPathResponse{
		Found:       route.Found,
		Reason:      route.Reason,
		Eta:         route.TravelTime,
		Dist:        route.Distance,
		Path:        route.Polyline,
		Coordinates: route.Coordinates,
		Stale:       route.Stale,
	}
	if !route.CongestionBuiltAt.IsZero() {
		builtAt := route.CongestionBuiltAt
		resp.CongestionBuiltAt = &builtAt
	}
	return resp
}

type nearestResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newErrorResponse(code, message string) errorResponse {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return resp
}
