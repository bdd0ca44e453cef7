package controllers

import (
	"context"

	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (*usecases.Route, error)
	NearestIntersection(lat, lon float64) (geo.Coordinate, error)
}
