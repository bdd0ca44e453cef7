package customizer

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/salcc/iGo/pkg"
	da "github.com/salcc/iGo/pkg/datastructure"
	"github.com/salcc/iGo/pkg/metrics"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/salcc/iGo/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrStaleCongestion = errors.New("congestion data could not be refreshed")

type CongestionSource interface {
	FetchCongestions(ctx context.Context) (map[int64]traffic.Congestion, error)
}

// Snapshot is a congestion overlay and the time it was built. it is never modified.
type Snapshot struct {
	metric  *metrics.Metric
	builtAt time.Time
}

func (s *Snapshot) GetMetric() *metrics.Metric {
	return s.metric
}

func (s *Snapshot) GetBuiltAt() time.Time {
	return s.builtAt
}

type OverlayCacheOption func(*OverlayCache)

func WithClock(now func() time.Time) OverlayCacheOption {
	return func(c *OverlayCache) {
		c.now = now
	}
}

func WithFreshness(freshness time.Duration) OverlayCacheOption {
	return func(c *OverlayCache) {
		c.freshness = freshness
	}
}

// WithRefreshTimeout bounds a single congestion fetch.
func WithRefreshTimeout(timeout time.Duration) OverlayCacheOption {
	return func(c *OverlayCache) {
		c.refreshTimeout = timeout
	}
}

// OverlayCache holds a single congestion overlay. readers always see a complete snapshot; a refresh swaps
// the pointer once the new overlay is built.
type OverlayCache struct {
	tg           *da.TurnGraph
	base         *metrics.Metric
	highwayPaths da.HighwayPaths
	source       CongestionSource
	log          *zap.Logger

	freshness      time.Duration
	refreshTimeout time.Duration
	now            func() time.Time

	current atomic.Pointer[Snapshot]
	group   singleflight.Group
}

func NewOverlayCache(tg *da.TurnGraph, base *metrics.Metric, highwayPaths da.HighwayPaths,
	source CongestionSource, log *zap.Logger, opts ...OverlayCacheOption) *OverlayCache {
	c := &OverlayCache{
		tg:           tg,
		base:         base,
		highwayPaths: highwayPaths,
		source:       source,
		log:          log,
		freshness:      pkg.CONGESTION_FRESHNESS,
		refreshTimeout: 30 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OverlayCache) isFresh(s *Snapshot) bool {
	return s != nil && c.now().Sub(s.builtAt) < c.freshness
}

/*
Get returns the cached overlay while it is younger than the freshness threshold, otherwise it fetches
congestion data and rebuilds. if the refresh fails the error wraps ErrStaleCongestion and the previous
snapshot stays available through Last.

concurrent callers share one refresh. the refresh is not tied to any caller's ctx, only to the refresh
timeout; a caller whose ctx ends first gets ctx.Err() while the refresh goes on for the others.
*/
func (c *OverlayCache) Get(ctx context.Context) (*Snapshot, error) {
	if s := c.current.Load(); c.isFresh(s) {
		return s, nil
	}

	ch := c.group.DoChan("overlay", func() (interface{}, error) {
		if s := c.current.Load(); c.isFresh(s) {
			return s, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return c.refresh(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.log.Warn("congestion overlay refresh failed", zap.Error(res.Err))
			return nil, util.WrapErrorf(ErrStaleCongestion, util.ErrInternalServerError, "refresh overlay: %v", res.Err)
		}
		return res.Val.(*Snapshot), nil
	}
}

// Last returns the most recent overlay regardless of its age, or nil if none was ever built.
func (c *OverlayCache) Last() *Snapshot {
	return c.current.Load()
}

func (c *OverlayCache) refresh(ctx context.Context) (*Snapshot, error) {
	congestions, err := c.source.FetchCongestions(ctx)
	if err != nil {
		return nil, err
	}

	metric := ApplyCongestion(c.tg, c.base, c.highwayPaths, congestions)
	s := &Snapshot{metric: metric, builtAt: c.now()}
	c.current.Store(s)

	c.log.Info("congestion overlay rebuilt",
		zap.Int("readings", len(congestions)),
		zap.Int("closedEdges", metric.NumberOfClosedEdges()))
	return s, nil
}
