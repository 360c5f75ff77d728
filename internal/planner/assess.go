package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
)

// Assessment is the full risk analysis for one location and event
// window, ready for rendering or publishing.
type Assessment struct {
	ID          string             `json:"id"`
	Location    domain.Location    `json:"location"`
	Window      domain.DateWindow  `json:"window"`
	Thresholds  domain.Thresholds  `json:"thresholds"`
	Risk        domain.RiskSummary `json:"risk"`
	Advice      []string           `json:"advice"`
	GeneratedAt time.Time          `json:"generated_at"`

	// Series backs the report's historical summary and is not part of
	// the wire representation.
	Series domain.Series `json:"-"`
}

// Assess fetches the historical series for the event window and
// summarizes its risk. Returns domain.ErrNoData when the source has
// nothing for the window, whatever the cause.
func (p *Planner) Assess(ctx context.Context, loc domain.Location, window domain.DateWindow, thresholds domain.Thresholds) (Assessment, error) {
	if err := window.Validate(); err != nil {
		return Assessment{}, err
	}

	series := p.fetchSeries(ctx, loc, window)
	if len(series) == 0 {
		return Assessment{}, domain.ErrNoData
	}

	risk := domain.Summarize(series, thresholds)

	return Assessment{
		ID:          uuid.NewString(),
		Location:    loc,
		Window:      window,
		Thresholds:  thresholds,
		Risk:        risk,
		Advice:      risk.Advice(thresholds),
		GeneratedAt: p.clock.Now().UTC(),
		Series:      series,
	}, nil
}
