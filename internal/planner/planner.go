// Package planner implements best-window search and risk assessment
// over historical weather series.
package planner

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/observability"
)

// HistoricalSource provides daily historical weather for a location and
// calendar window. Implementations must filter sentinel values; an
// empty series means no data.
type HistoricalSource interface {
	FetchDaily(ctx context.Context, loc domain.Location, window domain.DateWindow) (domain.Series, error)
}

// Planner orchestrates historical fetches into search outcomes and
// risk assessments. It holds no per-request state and is safe for
// concurrent use.
type Planner struct {
	source     HistoricalSource
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
	fetchLimit int
	ready      atomic.Bool
}

// New creates a Planner. fetchLimit bounds concurrent candidate fetches
// and is clamped to at least 1.
func New(source HistoricalSource, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, fetchLimit int) *Planner {
	if fetchLimit < 1 {
		fetchLimit = 1
	}
	return &Planner{
		source:     source,
		logger:     logger,
		metrics:    metrics,
		clock:      clock,
		fetchLimit: fetchLimit,
	}
}

// CheckReadiness returns nil once at least one historical fetch has
// produced data, or an error describing why the service is not ready.
func (p *Planner) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no successful historical fetch yet")
	}
	return nil
}

// fetchSeries retrieves a historical series, downgrading any fetch
// failure to an empty series. The core never distinguishes "no data"
// from "fetch failed".
func (p *Planner) fetchSeries(ctx context.Context, loc domain.Location, window domain.DateWindow) domain.Series {
	series, err := p.source.FetchDaily(ctx, loc, window)
	if err != nil {
		p.logger.Warn("historical fetch failed, treating as no data",
			"lat", loc.Lat,
			"lon", loc.Lon,
			"window", window.String(),
			"error", err,
		)
		return nil
	}
	if len(series) > 0 {
		p.ready.Store(true)
	}
	return series
}
