package engine

import (
	"context"
	"time"

	"github.com/salcc/iGo/pkg/customizer"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/engine/routing"
	"github.com/salcc/iGo/pkg/geo"
	"github.com/salcc/iGo/pkg/metrics"
	"github.com/salcc/iGo/pkg/spatialindex"
	"go.uber.org/zap"
)

// Engine answers routing queries over a static turn graph and a cached congestion overlay.
type Engine struct {
	tg       *da.TurnGraph
	base     *metrics.Metric
	rtree    *spatialindex.Rtree
	overlays *customizer.OverlayCache
	log      *zap.Logger
}

// Route is a path search outcome together with the age of the congestion data it was computed with.
type Route struct {
	*routing.PathResult
	CongestionBuiltAt time.Time
	// Stale is set when congestion data could not be refreshed and the last known overlay was used.
	Stale bool
}

func NewEngine(graphFile, highwayPathsFile string, source customizer.CongestionSource, leafRadius float64,
	log *zap.Logger, opts ...customizer.OverlayCacheOption) (*Engine, error) {

	log.Info("Starting iGo routing engine...")

	log.Info("Reading turn graph", zap.String("graphFile", graphFile))
	tg, err := da.ReadTurnGraph(graphFile)
	if err != nil {
		return nil, err
	}

	log.Info("Reading highway paths", zap.String("highwayPathsFile", highwayPathsFile))
	highwayPaths, err := da.ReadHighwayPaths(highwayPathsFile)
	if err != nil {
		return nil, err
	}

	return NewEngineFromTurnGraph(tg, highwayPaths, source, leafRadius, log, opts...), nil
}

func NewEngineFromTurnGraph(tg *da.TurnGraph, highwayPaths da.HighwayPaths, source customizer.CongestionSource,
	leafRadius float64, log *zap.Logger, opts ...customizer.OverlayCacheOption) *Engine {
	base := metrics.NewMetric(tg)

	rtree := spatialindex.NewRtree()
	rtree.Build(tg.GetNetwork(), leafRadius, log)

	return &Engine{
		tg:       tg,
		base:     base,
		rtree:    rtree,
		overlays: customizer.NewOverlayCache(tg, base, highwayPaths, source, log, opts...),
		log:      log,
	}
}

func (e *Engine) GetBounds() geo.Bounds {
	return e.tg.GetNetwork().GetBounds()
}

/*
ShortestPath finds the fastest route under current congestion. when the congestion feed cannot be
refreshed the last known overlay is used and the route is marked stale; if there has never been one the
refresh error is returned. ctx bounds the whole call.
*/
func (e *Engine) ShortestPath(ctx context.Context, src, dst geo.Coordinate) (*Route, error) {
	stale := false
	snapshot, err := e.overlays.Get(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		snapshot = e.overlays.Last()
		if snapshot == nil {
			return nil, err
		}
		stale = true
		e.log.Warn("routing with stale congestion data",
			zap.Time("builtAt", snapshot.GetBuiltAt()), zap.Error(err))
	}

	type searchResult struct {
		path *routing.PathResult
		err  error
	}
	done := make(chan searchResult, 1)
	go func() {
		path, err := routing.FindPath(e.tg, snapshot.GetMetric(), e.rtree, src, dst)
		done <- searchResult{path: path, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return &Route{
			PathResult:        res.path,
			CongestionBuiltAt: snapshot.GetBuiltAt(),
			Stale:             stale,
		}, nil
	}
}

// NearestIntersection returns the position of the intersection closest to c.
func (e *Engine) NearestIntersection(c geo.Coordinate) (geo.Coordinate, error) {
	v, err := e.rtree.Nearest(c.Lat, c.Lon)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return spatialindex.NodeToCoordinate(e.tg.GetNetwork(), v), nil
}
