package domain

import (
	"fmt"
	"time"
)

// Location is a WGS-84 latitude/longitude coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DateWindow is an inclusive range of calendar days. Start and End are
// midnight-UTC dates; both endpoints belong to the window.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateWindow builds a window from two dates, normalizing both to
// midnight UTC. Returns ErrInvalidWindow when start is after end.
func NewDateWindow(start, end time.Time) (DateWindow, error) {
	w := DateWindow{Start: Day(start), End: Day(end)}
	if err := w.Validate(); err != nil {
		return DateWindow{}, err
	}
	return w, nil
}

// Day truncates a time to its midnight-UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate reports ErrInvalidWindow when the window is inverted.
func (w DateWindow) Validate() error {
	if w.Start.After(w.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidWindow, w.Start.Format(DateFormat), w.End.Format(DateFormat))
	}
	return nil
}

// Days returns the window length in days, counting both endpoints.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// ClampDays truncates the window so that End is at most maxDays whole
// days past Start. A 200-day window clamped to 90 spans 91 calendar days.
func (w DateWindow) ClampDays(maxDays int) DateWindow {
	if w.Days() > maxDays+1 {
		w.End = w.Start.AddDate(0, 0, maxDays)
	}
	return w
}

// Offset returns the sub-window of the given duration starting offset
// days after the window's start.
func (w DateWindow) Offset(offset, durationDays int) DateWindow {
	start := w.Start.AddDate(0, 0, offset)
	return DateWindow{Start: start, End: start.AddDate(0, 0, durationDays-1)}
}

func (w DateWindow) String() string {
	return w.Start.Format(DateFormat) + ".." + w.End.Format(DateFormat)
}

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"
