package spatialindex

import (
	"errors"

	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/util"
)

var ErrEmptyGraph = errors.New("graph has no nodes")

// PointSet is anything with numbered positions, e.g. the intersections of a road network.
type PointSet interface {
	NumberOfPoints() int
	GetPoint(v da.Index) (float64, float64)
}

// NearestLinear returns the point closest to (lat, lon) by haversine distance. the first point at the
// minimum distance wins.
func NearestLinear(points PointSet, lat, lon float64) (da.Index, error) {
	n := points.NumberOfPoints()
	if n == 0 {
		return da.INVALID_INDEX, util.WrapErrorf(ErrEmptyGraph, util.ErrInternalServerError, "nearest node")
	}

	best := da.INVALID_INDEX
	bestDist := 0.0
	for v := da.Index(0); int(v) < n; v++ {
		pLat, pLon := points.GetPoint(v)
		d := geo.CalculateHaversineDistance(lat, lon, pLat, pLon)
		if best == da.INVALID_INDEX || d < bestDist {
			best, bestDist = v, d
		}
	}
	return best, nil
}

func NodeToCoordinate(points PointSet, v da.Index) geo.Coordinate {
	lat, lon := points.GetPoint(v)
	return geo.NewCoordinate(lat, lon)
}
