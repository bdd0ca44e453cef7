package routing

import (
	"github.com/salcc/iGo/pkg"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/metrics"
)

// Resolver maps a coordinate to the nearest intersection.
type Resolver interface {
	Nearest(lat, lon float64) (da.Index, error)
}

type PathResult struct {
	Found  bool
	Reason pkg.NoPathReason

	Nodes         []da.Index // turn graph nodes, Source first and Sink last
	Intersections []da.Index
	Coordinates   []geo.Coordinate // query source, intersections, query destination

	TravelTime float64 // seconds
	Distance   float64 // meters
}

/*
FindPath resolves src and dst to their nearest intersections and searches Source(s) -> Sink(d) with the
weights of metric. a route through closed streets only is NO_PATH_BLOCKED, no route at all is
NO_PATH_DISCONNECTED; neither is an error. errors come from resolving the coordinates.
*/
func FindPath(tg *da.TurnGraph, metric *metrics.Metric, resolver Resolver, src, dst geo.Coordinate) (*PathResult, error) {
	s, err := resolver.Nearest(src.Lat, src.Lon)
	if err != nil {
		return nil, err
	}
	d, err := resolver.Nearest(dst.Lat, dst.Lon)
	if err != nil {
		return nil, err
	}

	rn := tg.GetNetwork()

	if s == d {
		return &PathResult{
			Found:         true,
			Reason:        pkg.PATH_FOUND,
			Nodes:         []da.Index{tg.SourceOf(s)},
			Intersections: []da.Index{s},
			Coordinates:   []geo.Coordinate{src, rn.GetIntersection(s).GetCoordinate(), dst},
		}, nil
	}

	dijkstra := NewDijkstra(tg, metric)
	source, sink := tg.SourceOf(s), tg.SinkOf(d)
	travelTime, edges, reason := dijkstra.ShortestPath(source, sink)
	if reason != pkg.PATH_FOUND {
		return &PathResult{Found: false, Reason: reason}, nil
	}

	result := &PathResult{
		Found:      true,
		Reason:     pkg.PATH_FOUND,
		Nodes:      make([]da.Index, 0, len(edges)+1),
		TravelTime: travelTime,
	}

	result.Nodes = append(result.Nodes, source)
	for _, e := range edges {
		edge := tg.GetEdge(e)
		result.Nodes = append(result.Nodes, edge.GetHead())
		result.Distance += edge.GetLength()
	}

	// Entry(N, P) and Exit(N, S) sit on the same intersection, keep it once
	for _, u := range result.Nodes {
		v := tg.GetNode(u).GetMetanode()
		if n := len(result.Intersections); n > 0 && result.Intersections[n-1] == v {
			continue
		}
		result.Intersections = append(result.Intersections, v)
	}

	result.Coordinates = make([]geo.Coordinate, 0, len(result.Intersections)+2)
	result.Coordinates = append(result.Coordinates, src)
	for _, v := range result.Intersections {
		result.Coordinates = append(result.Coordinates, rn.GetIntersection(v).GetCoordinate())
	}
	result.Coordinates = append(result.Coordinates, dst)

	return result, nil
}
