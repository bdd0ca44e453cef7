package routing

import (
	"github.com/salcc/iGo/pkg/concurrent"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/salcc/iGo/pkg/util"
	"go.uber.org/zap"
)

// ShortestPathByLength returns the intersections of the shortest s-t path by street length.
func ShortestPathByLength(rn *da.RoadNetwork, s, t da.Index) ([]da.Index, bool) {
	if s == t {
		return []da.Index{s}, true
	}

	n := rn.NumberOfIntersections()
	dist := make([]float64, n)
	parent := make([]da.Index, n)
	heapNodes := make([]*da.PriorityQueueNode[da.Index], n)
	settled := make([]bool, n)
	for v := range parent {
		parent[v] = da.INVALID_INDEX
	}

	pq := da.NewBinaryHeap[da.Index]()
	heapNodes[s] = da.NewPriorityQueueNode(0, s)
	pq.Insert(heapNodes[s])

	for !pq.IsEmpty() {
		uNode, _ := pq.ExtractMin()
		u := uNode.GetItem()
		settled[u] = true
		if u == t {
			break
		}

		rn.ForOutSegments(u, func(seg *da.Segment) {
			v := seg.GetTo()
			if settled[v] {
				return
			}
			newDist := dist[u] + seg.GetLength()
			if heapNodes[v] == nil {
				dist[v] = newDist
				parent[v] = u
				heapNodes[v] = da.NewPriorityQueueNode(newDist, v)
				pq.Insert(heapNodes[v])
				return
			}
			if newDist < dist[v] {
				dist[v] = newDist
				parent[v] = u
				pq.DecreaseKey(heapNodes[v], newDist)
			}
		})
	}

	if !settled[t] {
		return nil, false
	}

	path := make([]da.Index, 0)
	for v := t; v != da.INVALID_INDEX; v = parent[v] {
		path = append(path, v)
	}
	return util.ReverseG(path), true
}

type highwayPath struct {
	wayID int64
	path  []da.Index
}

/*
BuildHighwayPaths translates every highway from a list of coordinates into the intersections it runs
through: each coordinate goes to its nearest intersection and consecutive intersections are joined by
their shortest path by length. joints are kept once. highways that resolve to fewer than two
intersections or cannot be joined are left out.
*/
func BuildHighwayPaths(rn *da.RoadNetwork, resolver Resolver, highways []traffic.Highway, workers int,
	log *zap.Logger) da.HighwayPaths {

	log.Info("Building highway paths...", zap.Int("highways", len(highways)), zap.Int("workers", workers))

	results := concurrent.Run(workers, highways, func(h traffic.Highway) highwayPath {
		path, err := buildHighwayPath(rn, resolver, h)
		if err != nil {
			log.Warn("skipping highway", zap.Int64("wayID", h.WayID), zap.Error(err))
			return highwayPath{wayID: h.WayID}
		}
		return highwayPath{wayID: h.WayID, path: path}
	})

	highwayPaths := make(da.HighwayPaths, len(results))
	for _, r := range results {
		if len(r.path) < 2 {
			continue
		}
		highwayPaths[r.wayID] = r.path
	}

	log.Info("Highway paths built.", zap.Int("paths", len(highwayPaths)))
	return highwayPaths
}

func buildHighwayPath(rn *da.RoadNetwork, resolver Resolver, h traffic.Highway) ([]da.Index, error) {
	nodes := make([]da.Index, 0, len(h.Coordinates))
	for _, c := range h.Coordinates {
		v, err := resolver.Nearest(c.Lat, c.Lon)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, v)
	}

	path := make([]da.Index, 0)
	for i := 0; i+1 < len(nodes); i++ {
		sub, ok := ShortestPathByLength(rn, nodes[i], nodes[i+1])
		if !ok {
			return nil, util.WrapErrorf(nil, util.ErrNotFound, "no path between intersections %d and %d",
				nodes[i], nodes[i+1])
		}
		if len(path) > 0 {
			sub = sub[1:]
		}
		path = append(path, sub...)
	}
	return path, nil
}
