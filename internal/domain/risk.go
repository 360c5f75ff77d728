package domain

import "fmt"

// RiskSummary expresses a window's historical risk as percentages of
// days exceeding each threshold.
type RiskSummary struct {
	HotProb   float64 `json:"hot_prob"`
	RainProb  float64 `json:"rain_prob"`
	ColdProb  float64 `json:"cold_prob"`
	TotalDays int     `json:"total_days"`
}

// Summarize computes exceedance percentages over a historical series.
// Hot and rain comparisons are strictly greater-than, cold is strictly
// less-than, matching Score's counting rule.
func Summarize(series Series, t Thresholds) RiskSummary {
	if len(series) == 0 {
		return RiskSummary{}
	}

	hot, rainy, cold := 0, 0, 0
	for _, obs := range series {
		if obs.MaxTempC > t.HotC {
			hot++
		}
		if obs.PrecipMM > t.RainMM {
			rainy++
		}
		if obs.MaxTempC < t.ColdC {
			cold++
		}
	}

	n := float64(len(series))
	return RiskSummary{
		HotProb:   100 * float64(hot) / n,
		RainProb:  100 * float64(rainy) / n,
		ColdProb:  100 * float64(cold) / n,
		TotalDays: len(series),
	}
}

// Advice renders plain-text recommendations from the summary. Above
// 50% is high risk, above 25% is moderate, anything else gets a
// general all-clear.
func (s RiskSummary) Advice(t Thresholds) []string {
	var points []string

	switch {
	case s.HotProb > 50:
		points = append(points, fmt.Sprintf("High heat risk: %.0f%% of historical days exceeded %.0f deg C. Plan shade, water stations, and avoid midday scheduling.", s.HotProb, t.HotC))
	case s.HotProb > 25:
		points = append(points, fmt.Sprintf("Moderate heat risk: %.0f%% of historical days exceeded %.0f deg C. Consider morning or evening hours.", s.HotProb, t.HotC))
	}

	switch {
	case s.RainProb > 50:
		points = append(points, fmt.Sprintf("High rain risk: %.0f%% of historical days saw more than %.0f mm of rain. A covered venue or rain date is strongly recommended.", s.RainProb, t.RainMM))
	case s.RainProb > 25:
		points = append(points, fmt.Sprintf("Moderate rain risk: %.0f%% of historical days saw more than %.0f mm of rain. Keep a tent or indoor fallback ready.", s.RainProb, t.RainMM))
	}

	if s.ColdProb > 25 {
		points = append(points, fmt.Sprintf("Cold risk: %.0f%% of historical days stayed below %.0f deg C. Advise guests to dress warmly.", s.ColdProb, t.ColdC))
	}

	if len(points) == 0 {
		points = append(points, "Historical conditions look favorable for an outdoor event in this window.")
	}
	return points
}
