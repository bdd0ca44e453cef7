package usecases

import (
	"context"

	"github.com/salcc/iGo/pkg/engine"
	"github.com/salcc/iGo/pkg/geo"
)

type RoutingEngine interface {
	ShortestPath(ctx context.Context, src, dst geo.Coordinate) (*engine.Route, error)
	NearestIntersection(c geo.Coordinate) (geo.Coordinate, error)
	GetBounds() geo.Bounds
}
