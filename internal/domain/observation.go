package domain

import "time"

// DailyObservation is one day of historical weather at a location.
// Sentinel values never appear here; see the package documentation.
type DailyObservation struct {
	Date     time.Time `json:"date"`
	MaxTempC float64   `json:"max_temp_c"`
	PrecipMM float64   `json:"precip_mm"`
}

// Series is an ordered-by-date sequence of observations for one
// location and window. An empty series signals no data or a failed
// fetch; the two are deliberately indistinguishable.
type Series []DailyObservation

// MaxTemps returns the temperature channel as a flat slice.
func (s Series) MaxTemps() []float64 {
	out := make([]float64, len(s))
	for i, obs := range s {
		out[i] = obs.MaxTempC
	}
	return out
}

// Precips returns the precipitation channel as a flat slice.
func (s Series) Precips() []float64 {
	out := make([]float64, len(s))
	for i, obs := range s {
		out[i] = obs.PrecipMM
	}
	return out
}
