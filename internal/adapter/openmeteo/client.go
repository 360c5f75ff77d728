// Package openmeteo fetches short-range daily forecasts from the
// Open-Meteo API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/observability"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// MaxForecastDays is the longest horizon Open-Meteo serves.
	MaxForecastDays = 16
)

// ForecastDay is one day of the short-range forecast.
type ForecastDay struct {
	Date     time.Time `json:"date"`
	MaxTempC float64   `json:"max_temp_c"`
	MinTempC float64   `json:"min_temp_c"`
	PrecipMM float64   `json:"precip_mm"`
}

// Client fetches daily forecasts from Open-Meteo.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo forecast client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchDaily returns up to days of daily forecast for the location.
// days is clamped to 1..16.
func (c *Client) FetchDaily(ctx context.Context, loc domain.Location, days int) ([]ForecastDay, error) {
	if days < 1 {
		days = 1
	}
	if days > MaxForecastDays {
		days = MaxForecastDays
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(days))

	forecast, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		c.metrics.ForecastFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.ForecastFetches.WithLabelValues("success").Inc()
	return forecast, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]ForecastDay, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	days := make([]ForecastDay, 0, len(payload.Daily.Time))
	for i, dateStr := range payload.Daily.Time {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			c.logger.Warn("skipping forecast day with bad date", "date", dateStr, "error", err)
			continue
		}
		day := ForecastDay{Date: date}
		if i < len(payload.Daily.TempMax) {
			day.MaxTempC = payload.Daily.TempMax[i]
		}
		if i < len(payload.Daily.TempMin) {
			day.MinTempC = payload.Daily.TempMin[i]
		}
		if i < len(payload.Daily.Precip) {
			day.PrecipMM = payload.Daily.Precip[i]
		}
		days = append(days, day)
	}
	return days, nil
}

// Open-Meteo API response types.

type response struct {
	Daily struct {
		Time    []string  `json:"time"`
		TempMax []float64 `json:"temperature_2m_max"`
		TempMin []float64 `json:"temperature_2m_min"`
		Precip  []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}
