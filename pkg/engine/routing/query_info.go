package routing

import (
	da "github.com/salcc/iGo/pkg/datastructure"
)

// VertexInfo is the search label of one node: best known travel time, the edge it was reached through and
// its heap entry.
type VertexInfo struct {
	travelTime float64
	parentEdge da.Index
	heapNode   *da.PriorityQueueNode[da.Index]
	settled    bool
}

func NewVertexInfo(travelTime float64, parentEdge da.Index, heapNode *da.PriorityQueueNode[da.Index]) *VertexInfo {
	return &VertexInfo{
		travelTime: travelTime,
		parentEdge: parentEdge,
		heapNode:   heapNode,
	}
}

func (vi *VertexInfo) update(travelTime float64, parentEdge da.Index) {
	vi.travelTime = travelTime
	vi.parentEdge = parentEdge
}
