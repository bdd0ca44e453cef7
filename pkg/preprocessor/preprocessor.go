package preprocessor

import (
	"github.com/salcc/iGo/pkg/costfunction"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/engine/routing"
	"github.com/salcc/iGo/pkg/spatialindex"
	"github.com/salcc/iGo/pkg/traffic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Preprocessor builds the static artifacts: the turn graph and the highway paths.
type Preprocessor struct {
	costFunction costfunction.CostFunction
	log          *zap.Logger
}

func NewPreprocessor(costFunction costfunction.CostFunction, log *zap.Logger) *Preprocessor {
	return &Preprocessor{
		costFunction: costFunction,
		log:          log,
	}
}

// BuildTurnGraph reduces the raw network to its main strongly connected component, assigns base travel
// times and expands every intersection.
func (p *Preprocessor) BuildTurnGraph(raw []da.RawSegment) (*da.TurnGraph, error) {
	p.log.Info("Building road network...", zap.Int("rawSegments", len(raw)))
	rn, err := da.NewRoadNetwork(raw)
	if err != nil {
		return nil, err
	}
	n, m := rn.NumberOfIntersections(), rn.NumberOfSegments()

	if err := rn.ReduceToMainComponent(); err != nil {
		return nil, err
	}
	p.log.Info("Reduced road network to its main strongly connected component",
		zap.Int("intersections", rn.NumberOfIntersections()),
		zap.Int("segments", rn.NumberOfSegments()),
		zap.Int("droppedIntersections", n-rn.NumberOfIntersections()),
		zap.Int("droppedSegments", m-rn.NumberOfSegments()))

	rn.AssignBaseWeights(p.costFunction)

	tg := da.ExpandIntersections(rn, p.costFunction)
	p.log.Info("Intersections expanded",
		zap.Int("turnNodes", tg.NumberOfNodes()),
		zap.Int("turnEdges", tg.NumberOfEdges()))
	return tg, nil
}

func (p *Preprocessor) BuildHighwayPaths(rn *da.RoadNetwork, highways []traffic.Highway, leafRadius float64,
	workers int) da.HighwayPaths {
	rt := spatialindex.NewRtree()
	rt.Build(rn, leafRadius, p.log)
	return routing.BuildHighwayPaths(rn, rt, highways, workers, p.log)
}

// PreProcessing builds both artifacts and writes them side by side.
func (p *Preprocessor) PreProcessing(raw []da.RawSegment, highways []traffic.Highway, leafRadius float64,
	workers int, graphFile, highwayPathsFile string) error {
	tg, err := p.BuildTurnGraph(raw)
	if err != nil {
		return err
	}
	highwayPaths := p.BuildHighwayPaths(tg.GetNetwork(), highways, leafRadius, workers)

	g := errgroup.Group{}
	g.Go(func() error {
		p.log.Info("Writing turn graph", zap.String("file", graphFile))
		return tg.WriteTurnGraph(graphFile)
	})
	g.Go(func() error {
		p.log.Info("Writing highway paths", zap.String("file", highwayPathsFile))
		return highwayPaths.WriteHighwayPaths(highwayPathsFile)
	})
	return g.Wait()
}
