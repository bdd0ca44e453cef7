package osmparser

import (
	"context"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/util"
	"go.uber.org/zap"
)

type nodeType uint8

const (
	END_NODE nodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

type osmWay struct {
	id        int64
	nodes     []int64
	direction direction
	speeds    []float64
}

type OsmParser struct {
	ways       []osmWay
	wayNodeMap map[int64]nodeType
	nodeCoords map[int64]geo.Coordinate
}

func NewOsmParser() *OsmParser {
	return &OsmParser{
		ways:       make([]osmWay, 0),
		wayNodeMap: make(map[int64]nodeType),
		nodeCoords: make(map[int64]geo.Coordinate),
	}
}

/*
Parse reads an OSM PBF extract in two passes (drivable ways, then the nodes they use) and returns one raw
segment per street between junctions, in each allowed direction. a junction is a way end or a node shared
by more than one way. the segment id is the OSM way id.
*/
func (p *OsmParser) Parse(ctx context.Context, r io.ReadSeeker, log *zap.Logger) ([]da.RawSegment, error) {
	scanner := osmpbf.New(ctx, r, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		if way, ok := scanner.Object().(*osm.Way); ok {
			p.addWay(way)
			if len(p.ways)%50000 == 0 {
				log.Sugar().Infof("scanning openstreetmap ways: %d...", len(p.ways))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, err
	}
	scanner.Close()
	if util.StopConcurrentOperation(ctx) {
		return nil, ctx.Err()
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	scanner = osmpbf.New(ctx, r, 1)
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		if node, ok := scanner.Object().(*osm.Node); ok {
			p.addNode(node)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	segments := p.buildSegments()
	log.Info("openstreetmap extract parsed",
		zap.Int("ways", len(p.ways)),
		zap.Int("nodes", len(p.nodeCoords)),
		zap.Int("segments", len(segments)))
	return segments, nil
}

func (p *OsmParser) addWay(way *osm.Way) {
	if !acceptOsmWay(way) {
		return
	}

	nodes := make([]int64, 0, len(way.Nodes))
	for i, wn := range way.Nodes {
		id := int64(wn.ID)
		nodes = append(nodes, id)

		if _, ok := p.wayNodeMap[id]; ok {
			p.wayNodeMap[id] = JUNCTION_NODE
		} else if i == 0 || i == len(way.Nodes)-1 {
			p.wayNodeMap[id] = END_NODE
		} else {
			p.wayNodeMap[id] = BETWEEN_NODE
		}
	}

	p.ways = append(p.ways, osmWay{
		id:        int64(way.ID),
		nodes:     nodes,
		direction: wayDirection(way.Tags),
		speeds:    parseMaxSpeed(way.Tags.Find("maxspeed")),
	})
}

func (p *OsmParser) addNode(node *osm.Node) {
	if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
		p.nodeCoords[int64(node.ID)] = geo.NewCoordinate(node.Lat, node.Lon)
	}
}

func (p *OsmParser) isJunctionNode(id int64) bool {
	t := p.wayNodeMap[id]
	return t == JUNCTION_NODE || t == END_NODE
}

// buildSegments splits every way at junctions. ways touching a node with no coordinates are split there
// too and the missing piece is dropped.
func (p *OsmParser) buildSegments() []da.RawSegment {
	segments := make([]da.RawSegment, 0)

	for _, way := range p.ways {
		start := 0
		length := 0.0
		for i := 1; i < len(way.nodes); i++ {
			prev, cur := way.nodes[i-1], way.nodes[i]
			prevCoord, okPrev := p.nodeCoords[prev]
			curCoord, okCur := p.nodeCoords[cur]
			if !okPrev || !okCur {
				start, length = i, 0
				continue
			}
			length += geo.HaversineBetween(prevCoord, curCoord)

			if !p.isJunctionNode(cur) && i != len(way.nodes)-1 {
				continue
			}

			segments = append(segments, p.streetSegments(way, way.nodes[start], cur, length)...)
			start, length = i, 0
		}
	}
	return segments
}

func (p *OsmParser) streetSegments(way osmWay, from, to int64, length float64) []da.RawSegment {
	if from == to || length <= 0 {
		return nil
	}

	fromCoord, toCoord := p.nodeCoords[from], p.nodeCoords[to]
	fromPoint := da.RawPoint{ID: from, Lat: fromCoord.Lat, Lon: fromCoord.Lon}
	toPoint := da.RawPoint{ID: to, Lat: toCoord.Lat, Lon: toCoord.Lon}

	out := make([]da.RawSegment, 0, 2)
	if way.direction != BACKWARD_ONLY {
		out = append(out, da.RawSegment{
			SegmentID:   way.id,
			From:        fromPoint,
			To:          toPoint,
			Length:      length,
			SpeedLimits: way.speeds,
			Bearing:     geo.BearingTo(fromPoint.Lat, fromPoint.Lon, toPoint.Lat, toPoint.Lon),
		})
	}
	if way.direction != FORWARD_ONLY {
		out = append(out, da.RawSegment{
			SegmentID:   way.id,
			From:        toPoint,
			To:          fromPoint,
			Length:      length,
			SpeedLimits: way.speeds,
			Bearing:     geo.BearingTo(toPoint.Lat, toPoint.Lon, fromPoint.Lat, fromPoint.Lon),
		})
	}
	return out
}
