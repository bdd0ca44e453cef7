package spatialindex

import (
	"math"

	"github.com/salcc/iGo/pkg"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/util"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

const (
	// candidates are searched in a box slightly larger than the radius they are accepted in
	boxMargin = 1.001
	// half the earth's circumference in km; past this the linear scan takes over
	maxSearchRadius = math.Pi * pkg.EARTH_RADIUS_M / 1000
)

type Rtree struct {
	tr           *rtree.RTreeG[da.Index]
	points       PointSet
	searchRadius float64
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. index every point as a degenerate box. searchRadius (km) is the radius of the first search ring
// in Nearest.
func (rt *Rtree) Build(points PointSet, searchRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("points", points.NumberOfPoints()))
	rt.points = points
	rt.searchRadius = searchRadius
	if rt.searchRadius <= 0 {
		rt.searchRadius = 0.05
	}

	n := points.NumberOfPoints()
	for v := da.Index(0); int(v) < n; v++ {
		lat, lon := points.GetPoint(v)
		rt.tr.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, v)
	}
	log.Info("R-tree spatial index built.")
}

/*
Nearest returns the same point as NearestLinear, found by searching boxes of growing radius r around the
query. a box contains every point within r km, so once the best candidate is within r nothing outside the
box can beat it, and every point tied with it is inside the box too; the lowest index among the tied
candidates is then also the first one in scan order.
*/
func (rt *Rtree) Nearest(lat, lon float64) (da.Index, error) {
	if rt.points == nil || rt.points.NumberOfPoints() == 0 {
		return da.INVALID_INDEX, util.WrapErrorf(ErrEmptyGraph, util.ErrInternalServerError, "nearest node")
	}

	for r := rt.searchRadius; r < maxSearchRadius; r *= 2 {
		minCorner, maxCorner, ok := searchBox(lat, lon, r*boxMargin)
		if !ok {
			break
		}

		best := da.INVALID_INDEX
		bestDist := 0.0
		rt.tr.Search(minCorner, maxCorner, func(min, max [2]float64, v da.Index) bool {
			d := geo.CalculateHaversineDistance(lat, lon, min[1], min[0])
			if best == da.INVALID_INDEX || d < bestDist || (d == bestDist && v < best) {
				best, bestDist = v, d
			}
			return true
		})

		if best != da.INVALID_INDEX && bestDist <= r*1000 {
			return best, nil
		}
	}

	return NearestLinear(rt.points, lat, lon)
}

// searchBox returns the lon/lat box enclosing the spherical cap of radius r km around (lat, lon). it
// reports false when the cap reaches a pole or the antimeridian.
func searchBox(lat, lon, r float64) ([2]float64, [2]float64, bool) {
	upperLat, _ := geo.GetDestinationPoint(lat, lon, 0, r)
	lowerLat, _ := geo.GetDestinationPoint(lat, lon, 180, r)
	if upperLat <= lat || lowerLat >= lat {
		// wrapped over a pole
		return [2]float64{}, [2]float64{}, false
	}

	// widest longitude of the cap. the points straight east and west of the query are not the widest ones
	angular := r * 1000 / pkg.EARTH_RADIUS_M
	ratio := math.Sin(angular) / math.Cos(util.DegreeToRadians(lat))
	if ratio >= 1 {
		return [2]float64{}, [2]float64{}, false
	}
	dLon := util.RadiansToDegree(math.Asin(ratio))
	if lon-dLon < -180 || lon+dLon > 180 {
		return [2]float64{}, [2]float64{}, false
	}

	return [2]float64{lon - dLon, lowerLat}, [2]float64{lon + dLon, upperLat}, true
}
