package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"beatmap-cache/core/errors"

	"go.uber.org/zap"
)

const endpoint = "get_beatmaps"

// Client fetches raw beatmap records from the external catalog.
// An empty result with a nil error means the catalog has no such beatmap.
type Client interface {
	Fetch(ctx context.Context, q Query) ([]RawBeatmap, error)
}

// HTTPClient talks to the osu! API v1.
type HTTPClient struct {
	baseURL string
	keys    []string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a catalog client from configuration.
// At least one API key is required.
func NewClient(cfg Config, logger *zap.Logger) (*HTTPClient, error) {
	keys := cfg.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("catalog: no API keys configured")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}

	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		keys:    keys,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger:  logger,
	}, nil
}

// Fetch performs one get_beatmaps request.
// 404 and an empty array yield no records; 403 means the catalog is down;
// every other failure, including timeouts, is transient.
func (c *HTTPClient) Fetch(ctx context.Context, q Query) ([]RawBeatmap, error) {
	param, value, err := q.Param()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("k", c.pickKey())
	params.Set(param, value)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{Endpoint: endpoint, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusForbidden:
		return nil, &errors.APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: "catalog is down"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &errors.APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.APIError{Endpoint: endpoint, Message: "failed to read body", Err: err}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var records []RawBeatmap
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, errors.NewMalformedRecordError("body", truncate(trimmed, 64), err)
	}

	c.logger.Debug("Catalog fetch completed",
		zap.String("query", q.Key()),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func (c *HTTPClient) pickKey() string {
	return c.keys[rand.IntN(len(c.keys))]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
