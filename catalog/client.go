package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ski-planner/api"
	"ski-planner/models"
	"ski-planner/utils"
)

// DefaultNearbyDistance is the radius (km) used when Nearby gets no positive distance
const DefaultNearbyDistance = 300

// Client reads resort records from the catalog service
type Client struct {
	transport *api.Transport
	cache     Cache
	ttl       time.Duration
	logger    *utils.Logger
}

// NewClient creates a catalog Client. A nil cache disables response caching.
func NewClient(transport *api.Transport, cache Cache, ttl time.Duration, logger *utils.Logger) *Client {
	if cache == nil {
		cache = noCache{}
	}
	return &Client{transport: transport, cache: cache, ttl: ttl, logger: logger}
}

// ListStations calls GET /stations with the non-zero fields of q
func (c *Client) ListStations(ctx context.Context, q models.CatalogQuery) ([]models.Resort, error) {
	params := url.Values{}
	if q.Region != "" {
		params.Set("region", q.Region)
	}
	if q.MaxPrice > 0 {
		params.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.MinAltitude > 0 {
		params.Set("minAltitude", strconv.Itoa(q.MinAltitude))
	}
	if q.Level != "" {
		params.Set("level", q.Level)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var records []json.RawMessage
	err := c.fetch(ctx, api.Request{
		Op:      "list stations",
		Method:  http.MethodGet,
		Path:    "/stations",
		Query:   params,
		FailMsg: "Failed to fetch stations",
	}, &records)
	if err != nil {
		return nil, err
	}

	resorts := make([]models.Resort, 0, len(records))
	for i, rec := range records {
		var r models.Resort
		if err := json.Unmarshal(rec, &r); err != nil {
			c.logger.Warn("Dropping station #%d: %v", i, err)
			continue
		}
		if err := r.Validate(); err != nil {
			c.logger.Warn("Dropping station: %v", err)
			continue
		}
		resorts = append(resorts, r)
	}
	return resorts, nil
}

// GetStation calls GET /stations/{id}. A missing station matches api.ErrNotFound.
func (c *Client) GetStation(ctx context.Context, id string) (*models.Resort, error) {
	var resort models.Resort
	err := c.fetch(ctx, api.Request{
		Op:      "get station",
		Method:  http.MethodGet,
		Path:    "/stations/" + url.PathEscape(id),
		FailMsg: "Failed to fetch station",
	}, &resort)
	if err != nil {
		return nil, err
	}
	if err := resort.Validate(); err != nil {
		return nil, fmt.Errorf("invalid station record: %w", err)
	}
	return &resort, nil
}

// Nearby calls GET /stations/nearby; maxDistance <= 0 falls back to DefaultNearbyDistance
func (c *Client) Nearby(ctx context.Context, latitude, longitude, maxDistance float64) ([]models.NearbyResort, error) {
	if maxDistance <= 0 {
		maxDistance = DefaultNearbyDistance
	}
	params := url.Values{
		"latitude":    {strconv.FormatFloat(latitude, 'f', -1, 64)},
		"longitude":   {strconv.FormatFloat(longitude, 'f', -1, 64)},
		"maxDistance": {strconv.FormatFloat(maxDistance, 'f', -1, 64)},
	}

	var records []json.RawMessage
	err := c.fetch(ctx, api.Request{
		Op:      "nearby stations",
		Method:  http.MethodGet,
		Path:    "/stations/nearby",
		Query:   params,
		FailMsg: "Failed to fetch nearby stations",
	}, &records)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.NearbyResort, 0, len(records))
	for i, rec := range records {
		var n models.NearbyResort
		if err := json.Unmarshal(rec, &n); err != nil {
			c.logger.Warn("Dropping nearby station #%d: %v", i, err)
			continue
		}
		if err := n.Validate(); err != nil {
			c.logger.Warn("Dropping nearby station: %v", err)
			continue
		}
		nearby = append(nearby, n)
	}
	return nearby, nil
}

// fetch serves req from the cache when possible, otherwise from the service
func (c *Client) fetch(ctx context.Context, req api.Request, out interface{}) error {
	key := c.transport.URL(req)

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal([]byte(cached), out); jsonErr == nil {
			c.logger.Debug("Cache hit: %s", key)
			return nil
		}
		c.logger.Warn("Discarding unreadable cache entry for %s", key)
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn("Cache read failed for %s: %v", key, err)
	}

	var raw json.RawMessage
	if err := c.transport.Do(ctx, req, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.Op, err)
	}
	if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
		c.logger.Warn("Cache write failed for %s: %v", key, err)
	}
	return nil
}
