package traffic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/salcc/iGo/pkg/util"
	"go.uber.org/zap"
)

// Client downloads the highway and congestion feeds. it does not retry.
type Client struct {
	httpClient     *http.Client
	highwaysURL    string
	congestionsURL string
	location       *time.Location
	log            *zap.Logger
}

func NewClient(httpClient *http.Client, highwaysURL, congestionsURL string, location *time.Location,
	log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient:     httpClient,
		highwaysURL:    highwaysURL,
		congestionsURL: congestionsURL,
		location:       location,
		log:            log,
	}
}

func (c *Client) FetchHighways(ctx context.Context) (map[int64]Highway, error) {
	var highways map[int64]Highway
	err := c.get(ctx, c.highwaysURL, func(body io.Reader) error {
		var err error
		highways, err = ParseHighways(body)
		return err
	})
	return highways, err
}

// FetchCongestions downloads the current congestion readings.
func (c *Client) FetchCongestions(ctx context.Context) (map[int64]Congestion, error) {
	var congestions map[int64]Congestion
	err := c.get(ctx, c.congestionsURL, func(body io.Reader) error {
		var err error
		congestions, err = ParseCongestions(body, c.location, c.log)
		return err
	})
	return congestions, err
}

func (c *Client) get(ctx context.Context, url string, parse func(io.Reader) error) error {
	if url == "" {
		return util.WrapErrorf(nil, util.ErrConfiguration, "traffic feed url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return util.WrapErrorf(nil, util.ErrInternalServerError, "fetching %s: %s", url, resp.Status)
	}

	if err := parse(resp.Body); err != nil {
		return fmt.Errorf("parsing %s: %w", url, err)
	}
	return nil
}
