package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/salcc/iGo/pkg/costfunction"
	"github.com/salcc/iGo/pkg/logger"
	"github.com/salcc/iGo/pkg/osmparser"
	"github.com/salcc/iGo/pkg/preprocessor"
	"github.com/salcc/iGo/pkg/traffic"
	"github.com/salcc/iGo/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	osmFile = flag.String("osm_file", "", "OpenStreetMap pbf extract, overrides OSM_FILE")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	if *osmFile != "" {
		viper.Set("OSM_FILE", *osmFile)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	f, err := os.Open(viper.GetString("OSM_FILE"))
	if err != nil {
		logger.Fatal("open osm file", zap.Error(err))
	}
	defer f.Close()

	raw, err := osmparser.NewOsmParser().Parse(ctx, f, logger)
	if err != nil {
		logger.Fatal("parse osm file", zap.Error(err))
	}

	highways, err := fetchHighways(ctx, logger)
	if err != nil {
		logger.Fatal("fetch highways", zap.Error(err))
	}

	cf := costfunction.NewTimeCostFunctionWithDefaultSpeed(viper.GetFloat64("DEFAULT_SPEED_KMH"))
	prep := preprocessor.NewPreprocessor(cf, logger)
	err = prep.PreProcessing(raw, highways, viper.GetFloat64("RTREE_LEAF_RADIUS_KM"),
		viper.GetInt("HIGHWAY_PATH_WORKERS"), viper.GetString("GRAPH_FILE"), viper.GetString("HIGHWAY_PATHS_FILE"))
	if err != nil {
		logger.Fatal("preprocessing", zap.Error(err))
	}

	logger.Sugar().Infof("Preprocessing completed successfully.")
}

// fetchHighways downloads the highways feed, ordered by way id. without HIGHWAYS_URL no highway is matched.
func fetchHighways(ctx context.Context, log *zap.Logger) ([]traffic.Highway, error) {
	url := viper.GetString("HIGHWAYS_URL")
	if url == "" {
		log.Warn("HIGHWAYS_URL is not set, congestion will never be applied")
		return nil, nil
	}

	loc, err := time.LoadLocation(viper.GetString("FEED_TIMEZONE"))
	if err != nil {
		return nil, err
	}
	client := traffic.NewClient(&http.Client{Timeout: viper.GetDuration("FEED_HTTP_TIMEOUT")}, url, "", loc, log)

	byID, err := client.FetchHighways(ctx)
	if err != nil {
		return nil, err
	}

	highways := make([]traffic.Highway, 0, len(byID))
	for _, hw := range byID {
		highways = append(highways, hw)
	}
	sort.Slice(highways, func(i, j int) bool {
		return highways[i].WayID < highways[j].WayID
	})
	log.Info("Fetched highways", zap.Int("highways", len(highways)))
	return highways, nil
}
