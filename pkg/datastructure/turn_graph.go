package datastructure

import (
	"fmt"

	"github.com/salcc/iGo/pkg"
	"github.com/salcc/iGo/pkg/costfunction"
	"github.com/salcc/iGo/pkg/geo"
)

// TurnNode is a vertex of the intersection-expanded graph.
// Entry(N, P): arrived at N from P. Exit(N, S): about to leave N towards S.
// Source(N) and Sink(N) have no neighbor.
type TurnNode struct {
	kind     pkg.TurnNodeKind
	metanode Index
	neighbor Index
}

func NewTurnNode(kind pkg.TurnNodeKind, metanode, neighbor Index) TurnNode {
	return TurnNode{kind: kind, metanode: metanode, neighbor: neighbor}
}

func (n TurnNode) GetKind() pkg.TurnNodeKind {
	return n.kind
}

func (n TurnNode) GetMetanode() Index {
	return n.metanode
}

// GetNeighbor returns the predecessor of an Entry node or the successor of an Exit node.
func (n TurnNode) GetNeighbor() (Index, bool) {
	return n.neighbor, n.neighbor != INVALID_INDEX
}

func (n TurnNode) String() string {
	if n.neighbor == INVALID_INDEX {
		return fmt.Sprintf("%s(%d)", n.kind, n.metanode)
	}
	return fmt.Sprintf("%s(%d,%d)", n.kind, n.metanode, n.neighbor)
}

type TurnEdge struct {
	id      Index
	tail    Index
	head    Index
	kind    pkg.TurnEdgeKind
	length  float64
	weight  float64
	segment Index // street segment of a STREET_EDGE, INVALID_INDEX otherwise
}

func NewTurnEdge(id, tail, head Index, kind pkg.TurnEdgeKind, length, weight float64, segment Index) TurnEdge {
	return TurnEdge{id: id, tail: tail, head: head, kind: kind, length: length, weight: weight, segment: segment}
}

func (e *TurnEdge) GetID() Index {
	return e.id
}

func (e *TurnEdge) GetTail() Index {
	return e.tail
}

func (e *TurnEdge) GetHead() Index {
	return e.head
}

func (e *TurnEdge) GetKind() pkg.TurnEdgeKind {
	return e.kind
}

func (e *TurnEdge) GetLength() float64 {
	return e.length
}

// GetWeight returns the static weight. congestion-adjusted weights live in a metric.
func (e *TurnEdge) GetWeight() float64 {
	return e.weight
}

func (e *TurnEdge) GetSegment() Index {
	return e.segment
}

/*
TurnGraph is the intersection-expanded road network. it is immutable once built.

node layout for n intersections and m segments:

	[0, n)            Source(v)
	[n, 2n)           Sink(v)
	[2n, 2n+m)        Exit(from(s), to(s)) for segment s
	[2n+m, 2n+2m)     Entry(to(s), from(s)) for segment s

edges are stored sorted by tail, firstOut[u]..firstOut[u+1] leave u.
*/
type TurnGraph struct {
	network  *RoadNetwork
	nodes    []TurnNode
	edges    []TurnEdge
	firstOut []Index
}

func (tg *TurnGraph) numIntersections() Index {
	return Index(tg.network.NumberOfIntersections())
}

func (tg *TurnGraph) numSegments() Index {
	return Index(tg.network.NumberOfSegments())
}

func (tg *TurnGraph) SourceOf(v Index) Index {
	return v
}

func (tg *TurnGraph) SinkOf(v Index) Index {
	return tg.numIntersections() + v
}

func (tg *TurnGraph) ExitOf(segment Index) Index {
	return 2*tg.numIntersections() + segment
}

func (tg *TurnGraph) EntryOf(segment Index) Index {
	return 2*tg.numIntersections() + tg.numSegments() + segment
}

/*
ExpandIntersections rewrites the road network into a turn graph. for every intersection N with
predecessors P_i and successors S_j:

	Source(N)   -> Exit(N, S_j)    weight 0
	Entry(N, P_i) -> Sink(N)       weight 0
	Entry(N, P_i) -> Exit(N, S_j)  turn cost of bearing(P_i->N) and bearing(N->S_j)
	Exit(M, N)  -> Entry(N, M)     base weight of segment M->N

a path starting at a Source or ending at a Sink is never charged a turn.
segment weights must already be assigned.
*/
func ExpandIntersections(rn *RoadNetwork, cf costfunction.CostFunction) *TurnGraph {
	n := Index(rn.NumberOfIntersections())
	m := Index(rn.NumberOfSegments())

	tg := &TurnGraph{
		network: rn,
		nodes:   make([]TurnNode, 0, 2*n+2*m),
	}

	numTurns := 0
	for v := Index(0); v < n; v++ {
		numTurns += int(rn.GetInDegree(v)) * int(rn.GetOutDegree(v))
	}
	tg.edges = make([]TurnEdge, 0, int(m)+int(m)+int(m)+numTurns)
	tg.firstOut = make([]Index, 0, 2*n+2*m+1)

	addEdge := func(tail, head Index, kind pkg.TurnEdgeKind, length, weight float64, segment Index) {
		tg.edges = append(tg.edges, NewTurnEdge(Index(len(tg.edges)), tail, head, kind, length, weight, segment))
	}
	startNode := func(node TurnNode) Index {
		id := Index(len(tg.nodes))
		tg.nodes = append(tg.nodes, node)
		tg.firstOut = append(tg.firstOut, Index(len(tg.edges)))
		return id
	}

	for v := Index(0); v < n; v++ {
		source := startNode(NewTurnNode(pkg.SOURCE, v, INVALID_INDEX))
		rn.ForOutSegments(v, func(s *Segment) {
			addEdge(source, tg.ExitOf(s.id), pkg.TERMINAL_EDGE, 0, 0, INVALID_INDEX)
		})
	}

	for v := Index(0); v < n; v++ {
		startNode(NewTurnNode(pkg.SINK, v, INVALID_INDEX))
	}

	for s := Index(0); s < m; s++ {
		seg := rn.GetSegment(s)
		exit := startNode(NewTurnNode(pkg.EXIT, seg.from, seg.to))
		addEdge(exit, tg.EntryOf(s), pkg.STREET_EDGE, seg.length, seg.weight, s)
	}

	for s := Index(0); s < m; s++ {
		incoming := rn.GetSegment(s)
		via := incoming.to
		entry := startNode(NewTurnNode(pkg.ENTRY, via, incoming.from))

		rn.ForOutSegments(via, func(outgoing *Segment) {
			turnCost := cf.GetTurnCost(incoming.bearing, outgoing.bearing)
			addEdge(entry, tg.ExitOf(outgoing.id), pkg.TURN_EDGE, 0, turnCost, INVALID_INDEX)
		})

		addEdge(entry, tg.SinkOf(via), pkg.TERMINAL_EDGE, 0, 0, INVALID_INDEX)
	}

	tg.firstOut = append(tg.firstOut, Index(len(tg.edges)))
	return tg
}

func (tg *TurnGraph) GetNetwork() *RoadNetwork {
	return tg.network
}

func (tg *TurnGraph) NumberOfNodes() int {
	return len(tg.nodes)
}

func (tg *TurnGraph) NumberOfEdges() int {
	return len(tg.edges)
}

func (tg *TurnGraph) GetNode(u Index) TurnNode {
	return tg.nodes[u]
}

func (tg *TurnGraph) GetEdge(e Index) *TurnEdge {
	return &tg.edges[e]
}

func (tg *TurnGraph) GetOutDegree(u Index) Index {
	return tg.firstOut[u+1] - tg.firstOut[u]
}

func (tg *TurnGraph) ForOutEdges(u Index, handle func(e *TurnEdge)) {
	for i := tg.firstOut[u]; i < tg.firstOut[u+1]; i++ {
		handle(&tg.edges[i])
	}
}

// StreetEdgeOf returns the street edge carrying segment s.
func (tg *TurnGraph) StreetEdgeOf(s Index) Index {
	// every Exit node has exactly one out edge, its street edge
	return tg.firstOut[tg.ExitOf(s)]
}

// StreetEdgeBetween returns the street edge for the segment from intersection u to v.
func (tg *TurnGraph) StreetEdgeBetween(u, v Index) (Index, bool) {
	s, ok := tg.network.FindSegment(u, v)
	if !ok {
		return INVALID_INDEX, false
	}
	return tg.StreetEdgeOf(s), true
}

// GetNodeCoordinate returns the position of the node's metanode.
func (tg *TurnGraph) GetNodeCoordinate(u Index) geo.Coordinate {
	return tg.network.GetIntersection(tg.nodes[u].metanode).GetCoordinate()
}

// GetWeights returns a copy of the static edge weights.
func (tg *TurnGraph) GetWeights() []float64 {
	weights := make([]float64, len(tg.edges))
	for i := range tg.edges {
		weights[i] = tg.edges[i].weight
	}
	return weights
}
