package datastructure

import (
	"errors"
	"math"
	"sort"

	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/util"
)

type Index uint32

const INVALID_INDEX = Index(math.MaxUint32)

var (
	ErrInvalidSegment = errors.New("invalid street segment")
	ErrEmptyComponent = errors.New("main strongly connected component has no street segments")
)

// RawPoint and RawSegment are the records produced by the road network provider.
type RawPoint struct {
	ID  int64
	Lat float64
	Lon float64
}

type RawSegment struct {
	SegmentID   int64
	From        RawPoint
	To          RawPoint
	Length      float64   // meters
	SpeedLimits []float64 // km/h, empty when unknown
	Bearing     float64   // degrees
}

type Intersection struct {
	id    Index
	osmID int64
	lat   float64
	lon   float64
}

func NewIntersection(id Index, osmID int64, lat, lon float64) Intersection {
	return Intersection{id: id, osmID: osmID, lat: lat, lon: lon}
}

func (v Intersection) GetID() Index {
	return v.id
}

func (v Intersection) GetOsmID() int64 {
	return v.osmID
}

func (v Intersection) GetLat() float64 {
	return v.lat
}

func (v Intersection) GetLon() float64 {
	return v.lon
}

func (v Intersection) GetCoordinate() geo.Coordinate {
	return geo.NewCoordinate(v.lat, v.lon)
}

// Segment is a directed street segment between two intersections.
type Segment struct {
	id      Index
	from    Index
	to      Index
	wayID   int64
	length  float64 // meters
	speed   float64 // km/h, 0 when unknown
	bearing float64 // degrees
	weight  float64 // seconds
}

func NewSegment(id, from, to Index, wayID int64, length, speed, bearing float64) Segment {
	return Segment{id: id, from: from, to: to, wayID: wayID, length: length, speed: speed, bearing: bearing}
}

func (s *Segment) GetID() Index {
	return s.id
}

func (s *Segment) GetFrom() Index {
	return s.from
}

func (s *Segment) GetTo() Index {
	return s.to
}

func (s *Segment) GetWayID() int64 {
	return s.wayID
}

func (s *Segment) GetLength() float64 {
	return s.length
}

func (s *Segment) GetSpeed() float64 {
	return s.speed
}

func (s *Segment) GetBearing() float64 {
	return s.bearing
}

func (s *Segment) GetWeight() float64 {
	return s.weight
}

func (s *Segment) SetWeight(weight float64) {
	s.weight = weight
}

// RoadNetwork is a directed graph of intersections and street segments.
// segments are stored sorted by (from, to); firstOut[u]..firstOut[u+1] are the segments leaving u.
// inSegments holds segment ids sorted by (to, from), indexed by firstIn.
type RoadNetwork struct {
	intersections []Intersection
	segments      []Segment
	firstOut      []Index
	inSegments    []Index
	firstIn       []Index
}

/*
NewRoadNetwork builds the network from raw segment records.

intersections are numbered in first-seen order of their raw point id. self-loops are dropped and
parallel segments between the same ordered pair keep the shortest one (first one on equal length).
multi-valued speed limits are reduced to their mean.
*/
func NewRoadNetwork(raw []RawSegment) (*RoadNetwork, error) {
	pointIndex := make(map[int64]Index)
	intersections := make([]Intersection, 0)

	intersectionOf := func(p RawPoint) (Index, error) {
		if id, ok := pointIndex[p.ID]; ok {
			return id, nil
		}
		if !geo.NewCoordinate(p.Lat, p.Lon).Valid() {
			return INVALID_INDEX, util.WrapErrorf(ErrInvalidSegment, util.ErrConfiguration,
				"point %d has invalid coordinates (%f, %f)", p.ID, p.Lat, p.Lon)
		}
		id := Index(len(intersections))
		pointIndex[p.ID] = id
		intersections = append(intersections, NewIntersection(id, p.ID, p.Lat, p.Lon))
		return id, nil
	}

	type pair struct {
		from, to Index
	}
	segmentPos := make(map[pair]int)
	segments := make([]Segment, 0, len(raw))

	for _, r := range raw {
		if r.Length <= 0 || math.IsNaN(r.Length) || math.IsInf(r.Length, 0) {
			return nil, util.WrapErrorf(ErrInvalidSegment, util.ErrConfiguration,
				"segment %d has invalid length %f", r.SegmentID, r.Length)
		}
		if math.IsNaN(r.Bearing) || math.IsInf(r.Bearing, 0) {
			return nil, util.WrapErrorf(ErrInvalidSegment, util.ErrConfiguration,
				"segment %d has invalid bearing", r.SegmentID)
		}
		for _, speed := range r.SpeedLimits {
			if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
				return nil, util.WrapErrorf(ErrInvalidSegment, util.ErrConfiguration,
					"segment %d has invalid speed limit %f", r.SegmentID, speed)
			}
		}

		from, err := intersectionOf(r.From)
		if err != nil {
			return nil, err
		}
		to, err := intersectionOf(r.To)
		if err != nil {
			return nil, err
		}
		if from == to {
			continue
		}

		seg := NewSegment(INVALID_INDEX, from, to, r.SegmentID, r.Length, util.Mean(r.SpeedLimits), r.Bearing)

		key := pair{from, to}
		if pos, ok := segmentPos[key]; ok {
			if seg.length < segments[pos].length {
				segments[pos] = seg
			}
			continue
		}
		segmentPos[key] = len(segments)
		segments = append(segments, seg)
	}

	return newRoadNetwork(intersections, segments), nil
}

// newRoadNetwork sorts the segments, renumbers them and builds the forward and backward offsets.
// intersection ids must already be 0..n-1 in slice order.
func newRoadNetwork(intersections []Intersection, segments []Segment) *RoadNetwork {
	n := len(intersections)

	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].from != segments[j].from {
			return segments[i].from < segments[j].from
		}
		return segments[i].to < segments[j].to
	})

	firstOut := make([]Index, n+1)
	firstIn := make([]Index, n+1)
	for i := range segments {
		segments[i].id = Index(i)
		firstOut[segments[i].from+1]++
		firstIn[segments[i].to+1]++
	}
	for v := 0; v < n; v++ {
		firstOut[v+1] += firstOut[v]
		firstIn[v+1] += firstIn[v]
	}

	inSegments := make([]Index, len(segments))
	next := make([]Index, n)
	copy(next, firstIn[:n])
	// segments are sorted by tail, so each in-list ends up sorted by tail too
	for i := range segments {
		to := segments[i].to
		inSegments[next[to]] = Index(i)
		next[to]++
	}

	return &RoadNetwork{
		intersections: intersections,
		segments:      segments,
		firstOut:      firstOut,
		inSegments:    inSegments,
		firstIn:       firstIn,
	}
}

func (rn *RoadNetwork) NumberOfIntersections() int {
	return len(rn.intersections)
}

func (rn *RoadNetwork) NumberOfSegments() int {
	return len(rn.segments)
}

func (rn *RoadNetwork) GetIntersection(v Index) Intersection {
	return rn.intersections[v]
}

func (rn *RoadNetwork) GetSegment(s Index) *Segment {
	return &rn.segments[s]
}

func (rn *RoadNetwork) GetOutDegree(v Index) Index {
	return rn.firstOut[v+1] - rn.firstOut[v]
}

func (rn *RoadNetwork) GetInDegree(v Index) Index {
	return rn.firstIn[v+1] - rn.firstIn[v]
}

func (rn *RoadNetwork) ForOutSegments(v Index, handle func(s *Segment)) {
	for i := rn.firstOut[v]; i < rn.firstOut[v+1]; i++ {
		handle(&rn.segments[i])
	}
}

func (rn *RoadNetwork) ForInSegments(v Index, handle func(s *Segment)) {
	for i := rn.firstIn[v]; i < rn.firstIn[v+1]; i++ {
		handle(&rn.segments[rn.inSegments[i]])
	}
}

// FindSegment returns the segment from u to v.
func (rn *RoadNetwork) FindSegment(u, v Index) (Index, bool) {
	if int(u) >= len(rn.intersections) || int(v) >= len(rn.intersections) {
		return INVALID_INDEX, false
	}
	lo, hi := int(rn.firstOut[u]), int(rn.firstOut[u+1])
	i := lo + sort.Search(hi-lo, func(k int) bool {
		return rn.segments[lo+k].to >= v
	})
	if i < hi && rn.segments[i].to == v {
		return Index(i), true
	}
	return INVALID_INDEX, false
}

func (rn *RoadNetwork) GetCoordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, len(rn.intersections))
	for i, v := range rn.intersections {
		coords[i] = v.GetCoordinate()
	}
	return coords
}

func (rn *RoadNetwork) GetBounds() geo.Bounds {
	return geo.NewBounds(rn.GetCoordinates())
}

// NumberOfPoints and GetPoint let the spatial index read intersections.
func (rn *RoadNetwork) NumberOfPoints() int {
	return len(rn.intersections)
}

func (rn *RoadNetwork) GetPoint(v Index) (float64, float64) {
	return rn.intersections[v].lat, rn.intersections[v].lon
}
