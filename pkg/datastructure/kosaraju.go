package datastructure

import (
	"github.com/salcc/iGo/pkg/util"
)

// StronglyConnectedComponents. kosaraju's algorithm over the road network. components are returned in
// discovery order of the second (reversed) pass, each with its intersections in visiting order.
func (rn *RoadNetwork) StronglyConnectedComponents() [][]Index {
	n := Index(rn.NumberOfIntersections())
	components := make([][]Index, 0, 10)

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := Index(0); v < n; v++ {
		if !visited[v] {
			rn.dfs(v, &order, visited, false)
		}
	}

	order = util.ReverseG[Index](order)

	// reset visited
	visited = make([]bool, n)

	for _, v := range order {
		if !visited[v] {
			component := make([]Index, 0, 10)
			rn.dfs(v, &component, visited, true)
			components = append(components, component)
		}
	}

	return components
}

func (rn *RoadNetwork) dfs(v Index, output *[]Index, visited []bool, reversed bool) {
	visited[v] = true

	if !reversed {
		rn.ForOutSegments(v, func(s *Segment) {
			if !visited[s.to] {
				rn.dfs(s.to, output, visited, reversed)
			}
		})
	} else {
		rn.ForInSegments(v, func(s *Segment) {
			if !visited[s.from] {
				rn.dfs(s.from, output, visited, reversed)
			}
		})
	}

	*output = append(*output, v)
}

func (rn *RoadNetwork) IsStronglyConnected() bool {
	return len(rn.StronglyConnectedComponents()) <= 1
}

/*
ReduceToMainComponent keeps only the largest strongly connected component (by number of intersections;
the first discovered one wins ties) and drops every other intersection and segment. surviving
intersections keep their relative order and are renumbered from 0.
*/
func (rn *RoadNetwork) ReduceToMainComponent() error {
	components := rn.StronglyConnectedComponents()

	var main []Index
	for _, component := range components {
		if len(component) > len(main) {
			main = component
		}
	}

	keep := make([]bool, rn.NumberOfIntersections())
	for _, v := range main {
		keep[v] = true
	}

	newID := make([]Index, rn.NumberOfIntersections())
	intersections := make([]Intersection, 0, len(main))
	for v, inter := range rn.intersections {
		if !keep[v] {
			newID[v] = INVALID_INDEX
			continue
		}
		newID[v] = Index(len(intersections))
		inter.id = newID[v]
		intersections = append(intersections, inter)
	}

	segments := make([]Segment, 0, len(rn.segments))
	for _, s := range rn.segments {
		if !keep[s.from] || !keep[s.to] {
			continue
		}
		s.from = newID[s.from]
		s.to = newID[s.to]
		segments = append(segments, s)
	}

	if len(segments) == 0 {
		return util.WrapErrorf(ErrEmptyComponent, util.ErrConfiguration,
			"road network of %d intersections has no strongly connected component with street segments",
			rn.NumberOfIntersections())
	}

	*rn = *newRoadNetwork(intersections, segments)
	return nil
}
