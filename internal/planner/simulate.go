package planner

import (
	"math"
	"math/rand"
	"time"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
)

// Jitter bounds for the naive simulated forecast.
const (
	simTempJitterC   = 3.0
	simPrecipJitterM = 2.0
)

// SimulatedDay is one day of a naive simulated forecast.
type SimulatedDay struct {
	Date     time.Time `json:"date"`
	MaxTempC float64   `json:"max_temp_c"`
	PrecipMM float64   `json:"precip_mm"`
}

// Simulate produces a naive forecast for the event window by uniformly
// resampling historical observations and adding jitter: ±3 °C on
// temperature, ±2 mm on precipitation, precipitation floored at zero.
// The explicit rand source makes runs reproducible; an empty series
// yields nil.
func Simulate(series domain.Series, window domain.DateWindow, rng *rand.Rand) []SimulatedDay {
	if len(series) == 0 {
		return nil
	}

	days := window.Days()
	out := make([]SimulatedDay, 0, days)
	for i := 0; i < days; i++ {
		sample := series[rng.Intn(len(series))]

		temp := sample.MaxTempC + jitter(rng, simTempJitterC)
		precip := sample.PrecipMM + jitter(rng, simPrecipJitterM)
		if precip < 0 {
			precip = 0
		}

		out = append(out, SimulatedDay{
			Date:     window.Start.AddDate(0, 0, i),
			MaxTempC: round2(temp),
			PrecipMM: round2(precip),
		})
	}
	return out
}

// jitter draws uniformly from [-bound, bound).
func jitter(rng *rand.Rand, bound float64) float64 {
	return (rng.Float64()*2 - 1) * bound
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
