package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateWindow(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		w, err := NewDateWindow(date(2026, 6, 1), date(2026, 6, 10))
		require.NoError(t, err)
		assert.Equal(t, 10, w.Days())
	})

	t.Run("single day", func(t *testing.T) {
		w, err := NewDateWindow(date(2026, 6, 1), date(2026, 6, 1))
		require.NoError(t, err)
		assert.Equal(t, 1, w.Days())
	})

	t.Run("normalizes to midnight UTC", func(t *testing.T) {
		w, err := NewDateWindow(
			time.Date(2026, 6, 1, 14, 30, 0, 0, time.UTC),
			time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, date(2026, 6, 1), w.Start)
		assert.Equal(t, date(2026, 6, 2), w.End)
		assert.Equal(t, 2, w.Days())
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := NewDateWindow(date(2026, 6, 10), date(2026, 6, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestDateWindow_ClampDays(t *testing.T) {
	start := date(2026, 3, 1)

	t.Run("long range is truncated", func(t *testing.T) {
		w := DateWindow{Start: start, End: start.AddDate(0, 0, 200)}
		clamped := w.ClampDays(90)
		assert.Equal(t, start.AddDate(0, 0, 90), clamped.End)
		assert.Equal(t, 91, clamped.Days())
	})

	t.Run("short range is untouched", func(t *testing.T) {
		w := DateWindow{Start: start, End: start.AddDate(0, 0, 30)}
		assert.Equal(t, w, w.ClampDays(90))
	})

	t.Run("exact boundary is untouched", func(t *testing.T) {
		w := DateWindow{Start: start, End: start.AddDate(0, 0, 90)}
		assert.Equal(t, w, w.ClampDays(90))
	})
}

func TestDateWindow_Offset(t *testing.T) {
	w := DateWindow{Start: date(2026, 6, 1), End: date(2026, 6, 30)}

	candidate := w.Offset(0, 5)
	assert.Equal(t, date(2026, 6, 1), candidate.Start)
	assert.Equal(t, date(2026, 6, 5), candidate.End)

	candidate = w.Offset(3, 7)
	assert.Equal(t, date(2026, 6, 4), candidate.Start)
	assert.Equal(t, date(2026, 6, 10), candidate.End)
	assert.Equal(t, 7, candidate.Days())
}

func TestDateWindow_String(t *testing.T) {
	w := DateWindow{Start: date(2026, 6, 1), End: date(2026, 6, 10)}
	assert.Equal(t, "2026-06-01..2026-06-10", w.String())
}
