package geo

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/salcc/iGo/pkg"
)

// Bounds is the lat/lng rectangle covering a set of coordinates, plus a tolerance around it.
type Bounds struct {
	rect   s2.Rect
	margin s1.Angle
}

func NewBounds(coords []Coordinate) Bounds {
	rect := s2.EmptyRect()
	for _, c := range coords {
		rect = rect.AddPoint(s2.LatLngFromDegrees(c.Lat, c.Lon))
	}
	return Bounds{rect: rect}
}

// Expanded accepts points up to margin meters away from the rectangle.
func (b Bounds) Expanded(margin float64) Bounds {
	if b.rect.IsEmpty() {
		return b
	}
	return Bounds{rect: b.rect, margin: s1.Angle(margin / pkg.EARTH_RADIUS_M)}
}

func (b Bounds) Contains(c Coordinate) bool {
	ll := s2.LatLngFromDegrees(c.Lat, c.Lon)
	if b.rect.ContainsLatLng(ll) {
		return true
	}
	return !b.rect.IsEmpty() && b.margin > 0 && b.rect.DistanceToLatLng(ll) <= b.margin
}

func (b Bounds) IsEmpty() bool {
	return b.rect.IsEmpty()
}

func (b Bounds) Min() Coordinate {
	lo := b.rect.Lo()
	return NewCoordinate(lo.Lat.Degrees(), lo.Lng.Degrees())
}

func (b Bounds) Max() Coordinate {
	hi := b.rect.Hi()
	return NewCoordinate(hi.Lat.Degrees(), hi.Lng.Degrees())
}
