// Package nasapower fetches daily historical weather from the NASA
// POWER temporal API.
package nasapower

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/observability"
)

// sentinel marks a missing observation in NASA POWER responses.
const sentinel = -999

const (
	defaultBaseURL = "https://power.larc.nasa.gov/api/temporal/daily/point"
	defaultYears   = 20

	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
)

// Config holds client settings. Zero values fall back to defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Years      int
}

// Client implements planner.HistoricalSource against NASA POWER.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	years      int
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NASA POWER client with retries and a circuit
// breaker around the remote call.
func NewClient(cfg Config, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Years <= 0 {
		cfg.Years = defaultYears
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nasa-power",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		breaker:    breaker,
		maxRetries: cfg.MaxRetries,
		years:      cfg.Years,
		clock:      clock,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchDaily retrieves max temperature and precipitation for the given
// calendar window across the last complete years, sentinel-filtered and
// sorted by date. Errors are returned to the caller; the planner
// decides whether they are fatal.
func (c *Client) FetchDaily(ctx context.Context, loc domain.Location, window domain.DateWindow) (domain.Series, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := c.get(ctx, c.buildURL(loc, window))
	c.metrics.HistoricalFetchSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.HistoricalFetches.WithLabelValues("error").Inc()
		return nil, err
	}

	series, err := parseSeries(body)
	if err != nil {
		c.metrics.HistoricalFetches.WithLabelValues("error").Inc()
		return nil, err
	}

	if len(series) == 0 {
		c.metrics.HistoricalFetches.WithLabelValues("empty").Inc()
	} else {
		c.metrics.HistoricalFetches.WithLabelValues("success").Inc()
	}
	return series, nil
}

// buildURL maps the event's calendar window onto the same window across
// the last complete years, the way the POWER API expects: YYYYMMDD
// bounds with the first year on start and the last year on end.
func (c *Client) buildURL(loc domain.Location, window domain.DateWindow) string {
	lastYear := c.clock.Now().UTC().Year() - 1
	firstYear := lastYear - (c.years - 1)

	params := url.Values{}
	params.Set("parameters", "T2M_MAX,PRECTOTCORR")
	params.Set("community", "RE")
	params.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	params.Set("start", fmt.Sprintf("%d%s", firstYear, window.Start.Format("0102")))
	params.Set("end", fmt.Sprintf("%d%s", lastYear, window.End.Format("0102")))
	params.Set("format", "JSON")

	return c.baseURL + "?" + params.Encode()
}

// get executes the request with exponential-backoff retries behind the
// circuit breaker. Rate limiting, 5xx responses, and transport errors
// are retried; other failures are permanent.
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	backoff := initialBackoff

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doOnce(ctx, fullURL)
		})
		if err == nil {
			return result.([]byte), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker open: %w", err)
		}
		if !retryable(err) || attempt >= c.maxRetries {
			return nil, err
		}

		c.logger.Debug("retrying POWER request", "attempt", attempt+1, "backoff", backoff, "error", err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("power request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", errServerError, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("power API error: status %d: %s", resp.StatusCode, body)
	}
}

func retryable(err error) bool {
	if errors.Is(err, errRateLimited) || errors.Is(err, errServerError) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// parseSeries converts a POWER payload into a date-sorted series. Days
// whose temperature is the -999 sentinel are dropped; a sentinel or
// absent precipitation on a valid day becomes 0.
func parseSeries(body []byte) (domain.Series, error) {
	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	temps := payload.Properties.Parameter.MaxTemp
	precips := payload.Properties.Parameter.Precip
	if len(temps) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(temps))
	for k := range temps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make(domain.Series, 0, len(keys))
	for _, k := range keys {
		temp := temps[k]
		if temp == sentinel {
			continue
		}
		date, err := time.Parse("20060102", k)
		if err != nil {
			continue
		}
		precip := precips[k]
		if precip == sentinel {
			precip = 0
		}
		series = append(series, domain.DailyObservation{
			Date:     date,
			MaxTempC: temp,
			PrecipMM: precip,
		})
	}
	return series, nil
}

// NASA POWER API response types.

type response struct {
	Properties struct {
		Parameter struct {
			MaxTemp map[string]float64 `json:"T2M_MAX"`
			Precip  map[string]float64 `json:"PRECTOTCORR"`
		} `json:"parameter"`
	} `json:"properties"`
}
