package routing

import (
	"math"

	"github.com/salcc/iGo/pkg"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/metrics"
	"github.com/salcc/iGo/pkg/util"
)

// Dijkstra is a one-to-one search over a turn graph. weights come from a metric so the same static graph
// serves any congestion overlay. one Dijkstra per query.
type Dijkstra struct {
	tg     *da.TurnGraph
	metric *metrics.Metric

	info []*VertexInfo
	pq   *da.MinHeap[da.Index]
}

func NewDijkstra(tg *da.TurnGraph, metric *metrics.Metric) *Dijkstra {
	return &Dijkstra{
		tg:     tg,
		metric: metric,
		info:   make([]*VertexInfo, tg.NumberOfNodes()),
		pq:     da.NewFourAryHeap[da.Index](),
	}
}

/*
ShortestPath searches from turn node s to turn node t and returns the travel time and the edges of the
path in order.

a +Inf edge is only followed into a node that has no label yet, so a node is labelled +Inf exactly when it
can be reached but only through closed streets. an unlabelled t is NO_PATH_DISCONNECTED, a t labelled
+Inf is NO_PATH_BLOCKED.
*/
func (d *Dijkstra) ShortestPath(s, t da.Index) (float64, []da.Index, pkg.NoPathReason) {
	sNode := da.NewPriorityQueueNode(0, s)
	d.pq.Insert(sNode)
	d.info[s] = NewVertexInfo(0, da.INVALID_INDEX, sNode)

	for !d.pq.IsEmpty() {
		uNode, _ := d.pq.ExtractMin()
		u := uNode.GetItem()
		d.info[u].settled = true

		if u == t {
			break
		}
		d.relax(u)
	}

	tInfo := d.info[t]
	if tInfo == nil {
		return pkg.INF_WEIGHT, nil, pkg.NO_PATH_DISCONNECTED
	}
	if math.IsInf(tInfo.travelTime, 1) {
		return pkg.INF_WEIGHT, nil, pkg.NO_PATH_BLOCKED
	}

	edges := make([]da.Index, 0)
	for v := t; v != s; {
		e := d.info[v].parentEdge
		edges = append(edges, e)
		v = d.tg.GetEdge(e).GetTail()
	}

	return tInfo.travelTime, util.ReverseG(edges), pkg.PATH_FOUND
}

func (d *Dijkstra) relax(u da.Index) {
	uTime := d.info[u].travelTime

	d.tg.ForOutEdges(u, func(e *da.TurnEdge) {
		v := e.GetHead()
		newTravelTime := uTime + d.metric.GetWeight(e.GetID())

		vInfo := d.info[v]
		if vInfo == nil {
			vNode := da.NewPriorityQueueNode(newTravelTime, v)
			d.pq.Insert(vNode)
			d.info[v] = NewVertexInfo(newTravelTime, e.GetID(), vNode)
			return
		}

		if vInfo.settled || !(newTravelTime < vInfo.travelTime) {
			return
		}

		vInfo.update(newTravelTime, e.GetID())
		d.pq.DecreaseKey(vInfo.heapNode, newTravelTime)
	})
}
