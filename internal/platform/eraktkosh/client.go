package eraktkosh

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// gatewayEnvelope is the response shape shared by the stock and facility
// endpoints of the gateway.
type gatewayEnvelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []T    `json:"data"`
}

// RestyClient talks to a live eRaktKosh-compatible gateway. It implements
// both StockProvider and FacilityRegistry.
type RestyClient struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewRestyClient builds a client for the gateway at baseURL with bounded
// retry on transient failures.
func NewRestyClient(baseURL string, logger zerolog.Logger) *RestyClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")

	return &RestyClient{http: client, logger: logger}
}

// NearbyStock fetches nearby blood-bank stock for a group from the gateway.
func (c *RestyClient) NearbyStock(ctx context.Context, lat, lng float64, group blood.Group) ([]StockListing, error) {
	var envelope gatewayEnvelope[StockListing]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":   formatCoord(lat),
			"longitude":  formatCoord(lng),
			"bloodGroup": string(group),
		}).
		SetResult(&envelope).
		Get("/api/v1/nearby-blood-stock")
	if err != nil {
		return nil, fmt.Errorf("eraktkosh stock lookup: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn().Int("status", resp.StatusCode()).Msg("eraktkosh gateway returned error status")
		return nil, fmt.Errorf("eraktkosh stock lookup: gateway status %d", resp.StatusCode())
	}
	if !envelope.Success {
		return nil, fmt.Errorf("eraktkosh stock lookup: %s", envelope.Message)
	}
	return envelope.Data, nil
}

// NearbyFacilities fetches nearby healthcare facilities from the registry.
func (c *RestyClient) NearbyFacilities(ctx context.Context, lat, lng float64, radiusKM float64) ([]Facility, error) {
	var envelope gatewayEnvelope[Facility]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  formatCoord(lat),
			"longitude": formatCoord(lng),
			"radius":    strconv.FormatFloat(radiusKM, 'f', -1, 64),
		}).
		SetResult(&envelope).
		Get("/api/v1/nearby-facilities")
	if err != nil {
		return nil, fmt.Errorf("facility lookup: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn().Int("status", resp.StatusCode()).Msg("facility registry returned error status")
		return nil, fmt.Errorf("facility lookup: gateway status %d", resp.StatusCode())
	}
	if !envelope.Success {
		return nil, fmt.Errorf("facility lookup: %s", envelope.Message)
	}
	return envelope.Data, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
