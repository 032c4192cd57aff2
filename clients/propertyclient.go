package clients

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/propdash/propdash/models"
)

// PropertyClient queries the property search and analytics service.
type PropertyClient struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewPropertyClient(baseURL string, timeout time.Duration, logger *zap.Logger) *PropertyClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &PropertyClient{http: client, logger: logger}
}

// Search returns the service's ranked matches for a free-text query, best
// match first.
func (c *PropertyClient) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	var out struct {
		Query      string                `json:"query"`
		Results    []models.SearchResult `json:"results"`
		TotalFound int                   `json:"total_found"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&out).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("property search: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return out.Results, nil
}

// MarketSummary returns portfolio-wide aggregates. Aggregation happens
// upstream; nothing is cached or recomputed here.
func (c *PropertyClient) MarketSummary(ctx context.Context) (*models.MarketSummary, error) {
	var out struct {
		MarketArea string               `json:"market_area"`
		Summary    models.MarketSummary `json:"summary"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/market-summary")
	if err != nil {
		return nil, fmt.Errorf("market summary: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, statusErr(resp)
	}
	return &out.Summary, nil
}
