package openstreetmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Reverse/
// Sample request: https://nominatim.openstreetmap.org/reverse?lat=-1.2921&lon=36.8219&format=json
const (
	baseURL = "https://nominatim.openstreetmap.org/reverse"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. Nominatim rejects requests without an
// identifying User-Agent.
func NewClient(logger *slog.Logger, userAgent string, timeout time.Duration) *Client {
	return NewClientWithBaseURL(logger, baseURL, userAgent, timeout)
}

func NewClientWithBaseURL(logger *slog.Logger, base, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		userAgent:  userAgent,
		logger:     logger.With("component", "nominatim-client"),
	}
}

// Reverse looks up the address hierarchy for a coordinate
func (c *Client) Reverse(ctx context.Context, latitude, longitude float64) (*ReverseAPIResponse, error) {
	// Build URL with query parameters
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("lat", fmt.Sprintf("%f", latitude))
	q.Set("lon", fmt.Sprintf("%f", longitude))
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("reverse geocoding", "latitude", latitude, "longitude", longitude)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to reverse geocode", "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Nominatim returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp ReverseAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Nominatim answers 200 with an error field for points it cannot place, e.g. open sea
	if apiResp.Error != "" {
		return nil, fmt.Errorf("reverse geocode failed: %s", apiResp.Error)
	}

	return &apiResp, nil
}
