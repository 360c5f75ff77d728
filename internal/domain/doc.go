// Package domain models historical weather observations and the risk
// arithmetic used to plan outdoor events.
//
// # Data Source
//
// Historical observations originate from the NASA POWER Project daily
// temporal API (https://power.larc.nasa.gov/), parameters T2M_MAX
// (daily maximum 2-meter air temperature, °C) and PRECTOTCORR
// (corrected daily precipitation total, mm). The adapter requests the
// same calendar window across the last 20 complete years, so a 10-day
// event window yields on the order of 200 observations.
//
// # Sentinel Values
//
// NASA POWER marks a missing observation with -999. A day whose
// temperature channel is missing is dropped entirely; a missing
// precipitation value on an otherwise valid day is recorded as 0 mm.
// Filtering happens at the adapter boundary, so a Series never carries
// the sentinel. An empty Series means "no data" whether the cause was
// a genuinely empty response or a failed fetch; callers must not try
// to tell the two apart.
//
// # Risk Scoring
//
// A window's risk score is the count of observations whose maximum
// temperature strictly exceeds the hot threshold plus the count whose
// precipitation strictly exceeds the rain threshold. Lower is better.
// The cold threshold does not contribute to the score; it only feeds
// the percentage summary shown in reports.
//
// Default thresholds: hot 32 °C, rain 10 mm, cold 5 °C.
package domain
