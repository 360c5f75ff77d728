// Command report generates a weather risk PDF for a location and event
// window without running the HTTP service.
//
// Usage:
//
//	go run ./cmd/report \
//	  -lat 40.7 -lon -74.0 \
//	  -start 2026-06-01 -end 2026-06-10 \
//	  -out report.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Anna948/WeatherWise-Pro/internal/adapter/nasapower"
	"github.com/Anna948/WeatherWise-Pro/internal/config"
	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/observability"
	"github.com/Anna948/WeatherWise-Pro/internal/planner"
	"github.com/Anna948/WeatherWise-Pro/internal/report"
)

func main() {
	lat := flag.Float64("lat", 0, "latitude of the event location")
	lon := flag.Float64("lon", 0, "longitude of the event location")
	start := flag.String("start", "", "event start date (YYYY-MM-DD)")
	end := flag.String("end", "", "event end date (YYYY-MM-DD)")
	duration := flag.Int("duration", 0, "also search the window for the lowest-risk sub-window of this many days")
	hotC := flag.Float64("hot", 32, "hot day threshold in deg C")
	rainMM := flag.Float64("rain", 10, "rainy day threshold in mm")
	coldC := flag.Float64("cold", 5, "cold day threshold in deg C")
	out := flag.String("out", "report.pdf", "output PDF path")
	flag.Parse()

	if err := run(*lat, *lon, *start, *end, *duration, domain.Thresholds{HotC: *hotC, RainMM: *rainMM, ColdC: *coldC}, *out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(lat, lon float64, start, end string, duration int, thresholds domain.Thresholds, out string) error {
	from, err := time.Parse(domain.DateFormat, start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}
	to, err := time.Parse(domain.DateFormat, end)
	if err != nil {
		return fmt.Errorf("parse -end: %w", err)
	}
	window, err := domain.NewDateWindow(from, to)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, "text")
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	source := nasapower.NewClient(nasapower.Config{
		BaseURL:    cfg.PowerBaseURL,
		Timeout:    cfg.PowerTimeout,
		MaxRetries: cfg.PowerMaxRetries,
		Years:      cfg.HistoricalYears,
	}, clock, metrics, logger)
	p := planner.New(source, logger, metrics, clock, cfg.FetchConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	loc := domain.Location{Lat: lat, Lon: lon}

	assessment, err := p.Assess(ctx, loc, window, thresholds)
	if err != nil {
		return err
	}

	if duration > 0 {
		outcome, err := p.FindBestWindow(ctx, loc, window, thresholds, duration)
		if err != nil {
			return err
		}
		if outcome.Found {
			fmt.Printf("best %d-day window: %s (score %d)\n", duration, outcome.Window.String(), outcome.Score)
		} else {
			fmt.Printf("no feasible %d-day window found\n", duration)
		}
	}

	pdf, err := report.NewBuilder(clock, metrics).Build(assessment, nil)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("wrote %s (%d bytes)\n", out, len(pdf))
	return nil
}
