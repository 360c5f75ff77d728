package domain

// Thresholds holds the daily-risk cutoffs for one scoring run.
type Thresholds struct {
	HotC   float64 `json:"hot_c"`
	RainMM float64 `json:"rain_mm"`
	ColdC  float64 `json:"cold_c"`
}

// DefaultThresholds returns the standard cutoffs: hot above 32 °C,
// rainy above 10 mm, cold below 5 °C.
func DefaultThresholds() Thresholds {
	return Thresholds{HotC: 32, RainMM: 10, ColdC: 5}
}

// Score computes the risk score for one candidate window: the number
// of observations with max temperature strictly above the hot
// threshold plus the number with precipitation strictly above the rain
// threshold. A single day can count twice. Scoring an empty series is
// the caller's mistake; it yields 0, which must not be confused with a
// genuinely riskless window.
func Score(series Series, t Thresholds) int {
	hot, rainy := 0, 0
	for _, obs := range series {
		if obs.MaxTempC > t.HotC {
			hot++
		}
		if obs.PrecipMM > t.RainMM {
			rainy++
		}
	}
	return hot + rainy
}
