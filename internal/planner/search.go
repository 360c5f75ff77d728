package planner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
)

const (
	// maxSearchDays clamps the search range to bound historical fetch
	// volume; a longer range is truncated to Start+90 days.
	maxSearchDays = 90

	// maxCandidates caps the number of candidate windows evaluated per
	// search regardless of range size.
	maxCandidates = 50
)

// SearchOutcome is the result of a best-window search. Window and
// Score are meaningful only when Found is true.
type SearchOutcome struct {
	Found  bool              `json:"found"`
	Window domain.DateWindow `json:"window,omitzero"`
	Score  int               `json:"score"`
}

// candidate holds one evaluated window. ok distinguishes a real score
// from an offset whose series came back empty.
type candidate struct {
	window domain.DateWindow
	score  int
	ok     bool
}

// FindBestWindow scans candidate start offsets within searchRange and
// returns the event window of durationDays with the lowest historical
// risk score. Candidates with no data are skipped; ties go to the
// earliest offset. A not-found outcome is a value, not an error:
// errors are reserved for precondition violations.
//
// Candidate fetches run through a bounded worker pool. Results are
// collected per offset and reduced only after every worker settles so
// the earliest-offset tie-break stays deterministic under concurrency.
func (p *Planner) FindBestWindow(ctx context.Context, loc domain.Location, searchRange domain.DateWindow, thresholds domain.Thresholds, durationDays int) (SearchOutcome, error) {
	if durationDays < 1 {
		return SearchOutcome{}, domain.ErrInvalidDuration
	}
	if err := searchRange.Validate(); err != nil {
		return SearchOutcome{}, err
	}

	searchRange = searchRange.ClampDays(maxSearchDays)

	p.metrics.SearchRunning.Inc()
	defer p.metrics.SearchRunning.Dec()
	start := time.Now()
	defer func() { p.metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	// Feasibility check over the whole clamped range. An empty answer
	// means no candidate can do better, so stop before fanning out.
	if len(p.fetchSeries(ctx, loc, searchRange)) == 0 {
		p.logger.Info("search range has no historical data",
			"lat", loc.Lat, "lon", loc.Lon, "range", searchRange.String())
		p.metrics.Searches.WithLabelValues("not_found").Inc()
		return SearchOutcome{}, nil
	}

	maxOffset := searchRange.Days() - durationDays + 1
	if maxOffset > maxCandidates {
		maxOffset = maxCandidates
	}
	if maxOffset <= 0 {
		p.metrics.Searches.WithLabelValues("not_found").Inc()
		return SearchOutcome{}, nil
	}

	candidates := make([]candidate, maxOffset)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fetchLimit)
	for offset := 0; offset < maxOffset; offset++ {
		g.Go(func() error {
			window := searchRange.Offset(offset, durationDays)
			series := p.fetchSeries(gctx, loc, window)
			if len(series) == 0 {
				return nil
			}
			candidates[offset] = candidate{
				window: window,
				score:  domain.Score(series, thresholds),
				ok:     true,
			}
			return nil
		})
	}
	// Workers report failures as skipped candidates, never as errors.
	_ = g.Wait()

	p.metrics.SearchCandidates.Observe(float64(maxOffset))

	best := -1
	for i, c := range candidates {
		if !c.ok {
			continue
		}
		if best == -1 || c.score < candidates[best].score {
			best = i
		}
	}
	if best == -1 {
		p.metrics.Searches.WithLabelValues("not_found").Inc()
		return SearchOutcome{}, nil
	}

	p.logger.Info("best window selected",
		"lat", loc.Lat,
		"lon", loc.Lon,
		"window", candidates[best].window.String(),
		"score", candidates[best].score,
		"offset", best,
	)
	p.metrics.Searches.WithLabelValues("found").Inc()

	return SearchOutcome{
		Found:  true,
		Window: candidates[best].window,
		Score:  candidates[best].score,
	}, nil
}
