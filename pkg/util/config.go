package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func SetConfigDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")
	viper.SetDefault("USE_RATE_LIMIT", false)
	viper.SetDefault("RATE_LIMIT_RPS", 20)

	viper.SetDefault("GRAPH_FILE", "./data/igo.graph")
	viper.SetDefault("HIGHWAY_PATHS_FILE", "./data/highway_paths.txt")
	viper.SetDefault("OSM_FILE", "./data/barcelona.osm.pbf")
	viper.SetDefault("HIGHWAYS_URL", "")
	viper.SetDefault("CONGESTIONS_URL", "")
	viper.SetDefault("CONGESTION_FRESHNESS", 5*time.Minute)
	viper.SetDefault("DEFAULT_SPEED_KMH", 30.0)
	viper.SetDefault("HIGHWAY_PATH_WORKERS", 4)
	viper.SetDefault("RTREE_LEAF_RADIUS_KM", 0.05)
	viper.SetDefault("FEED_TIMEZONE", "Europe/Madrid")
	viper.SetDefault("FEED_HTTP_TIMEOUT", "15s")
	viper.SetDefault("BOUNDS_MARGIN_M", 2000.0)
	viper.SetDefault("LOG_LEVEL", "info")
}

// ReadConfig. loads ./data/config.* on top of the defaults. a missing config file is not an error.
func ReadConfig() error {
	SetConfigDefaults()
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
