package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/salcc/iGo/pkg/customizer"
	"github.com/salcc/iGo/pkg/engine"
	igohttp "github.com/salcc/iGo/pkg/http"
	"github.com/salcc/iGo/pkg/http/usecases"
	"github.com/salcc/iGo/pkg/logger"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/salcc/iGo/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "limit requests per client, overrides USE_RATE_LIMIT")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	if *useRateLimit {
		viper.Set("USE_RATE_LIMIT", true)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	loc, err := time.LoadLocation(viper.GetString("FEED_TIMEZONE"))
	if err != nil {
		logger.Fatal("load feed timezone", zap.Error(err))
	}
	feed := traffic.NewClient(&http.Client{Timeout: viper.GetDuration("FEED_HTTP_TIMEOUT")},
		viper.GetString("HIGHWAYS_URL"), viper.GetString("CONGESTIONS_URL"), loc, logger)

	routingEngine, err := engine.NewEngine(viper.GetString("GRAPH_FILE"), viper.GetString("HIGHWAY_PATHS_FILE"),
		feed, viper.GetFloat64("RTREE_LEAF_RADIUS_KM"), logger,
		customizer.WithFreshness(viper.GetDuration("CONGESTION_FRESHNESS")),
		customizer.WithRefreshTimeout(viper.GetDuration("FEED_HTTP_TIMEOUT")))
	if err != nil {
		logger.Fatal("start routing engine", zap.Error(err))
	}

	routingService := usecases.NewRoutingService(logger, routingEngine, viper.GetFloat64("BOUNDS_MARGIN_M"))

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := igohttp.NewServer(logger)
	api.Use(ctx, viper.GetBool("USE_RATE_LIMIT"), routingService)

	signal := igohttp.GracefulShutdown()

	logger.Info("iGo Routing Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
	_ = api.Wait()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
