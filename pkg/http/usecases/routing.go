package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/util"
	"go.uber.org/zap"
)

var ErrOutOfBounds = errors.New("coordinates are outside the road network")

type Route struct {
	Found             bool
	Reason            string
	TravelTime        float64
	Distance          float64
	Polyline          string
	Coordinates       []geo.Coordinate
	Stale             bool
	CongestionBuiltAt time.Time
}

type RoutingService struct {
	log    *zap.Logger
	engine RoutingEngine
	bounds geo.Bounds
}

// NewRoutingService accepts queries within boundsMargin meters of the network's bounding box.
func NewRoutingService(log *zap.Logger, engine RoutingEngine, boundsMargin float64) *RoutingService {
	return &RoutingService{
		log:    log,
		engine: engine,
		bounds: engine.GetBounds().Expanded(boundsMargin),
	}
}

func (rs *RoutingService) checkBounds(name string, c geo.Coordinate) error {
	if !rs.bounds.Contains(c) {
		return util.WrapErrorf(ErrOutOfBounds, util.ErrBadParamInput, "%s (%f, %f)", name, c.Lat, c.Lon)
	}
	return nil
}

func (rs *RoutingService) ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (*Route, error) {
	src := geo.NewCoordinate(origLat, origLon)
	dst := geo.NewCoordinate(dstLat, dstLon)
	if err := rs.checkBounds("origin", src); err != nil {
		return nil, err
	}
	if err := rs.checkBounds("destination", dst); err != nil {
		return nil, err
	}

	res, err := rs.engine.ShortestPath(ctx, src, dst)
	if err != nil {
		return nil, err
	}

	route := &Route{
		Found:             res.Found,
		Reason:            res.Reason.String(),
		Stale:             res.Stale,
		CongestionBuiltAt: res.CongestionBuiltAt,
	}
	if res.Reason != pkg.PATH_FOUND {
		rs.log.Debug("no route", zap.String("reason", route.Reason),
			zap.Float64("origLat", origLat), zap.Float64("origLon", origLon),
			zap.Float64("dstLat", dstLat), zap.Float64("dstLon", dstLon))
		return route, nil
	}

	route.TravelTime = util.RoundFloat(res.TravelTime, 2)
	route.Distance = util.RoundFloat(res.Distance, 2)
	route.Coordinates = res.Coordinates
	route.Polyline = geo.PolylineFromCoords(res.Coordinates)
	return route, nil
}

func (rs *RoutingService) NearestIntersection(lat, lon float64) (geo.Coordinate, error) {
	c := geo.NewCoordinate(lat, lon)
	if err := rs.checkBounds("location", c); err != nil {
		return geo.Coordinate{}, err
	}
	return rs.engine.NearestIntersection(c)
}
