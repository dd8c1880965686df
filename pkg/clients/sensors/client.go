package sensors

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/mycofarm/internal/config"
)

// Client exposes the environment-feed gateway operations used by the
// application.
type Client interface {
	LatestReadings(ctx context.Context, site string, limit int) ([]Reading, error)
}

// Reading is one measurement as reported by the gateway.
type Reading struct {
	Site        string    `json:"site"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Moisture    float64   `json:"moisture"`
	Timestamp   time.Time `json:"timestamp"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a gateway client using the provided configuration values.
func NewClient(cfg config.SensorsConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// listResponse mirrors the gateway's readings envelope.
type listResponse struct {
	Readings []Reading `json:"readings"`
}

// apiError represents a gateway error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// LatestReadings fetches up to limit readings for a site, newest first.
func (c *APIClient) LatestReadings(ctx context.Context, site string, limit int) ([]Reading, error) {
	result := new(listResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprint(limit)).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("/sites/%s/readings", site))
	if err != nil {
		return nil, fmt.Errorf("fetch sensor readings: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Code != 0 {
				code = apiErr.Error.Code
			}
		}
		return nil, fmt.Errorf("sensor gateway error: code=%d, message=%s", code, message)
	}

	return result.Readings, nil
}
