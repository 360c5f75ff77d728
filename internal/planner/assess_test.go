package planner

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/observability"
)

func TestAssess(t *testing.T) {
	eventWindow := window(1, 10)
	source := newStubSource(seriesWithScore(20, 10, 5))

	frozen := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(source, logger, observability.NewMetricsForTesting(), frozen, 4)

	a, err := p.Assess(context.Background(), testLocation, eventWindow, domain.DefaultThresholds())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, testLocation, a.Location)
	assert.Equal(t, eventWindow, a.Window)
	assert.Equal(t, 20, a.Risk.TotalDays)
	assert.InDelta(t, 50.0, a.Risk.HotProb, 0.001)
	assert.InDelta(t, 25.0, a.Risk.RainProb, 0.001)
	assert.NotEmpty(t, a.Advice)
	assert.Equal(t, frozen.Now().UTC(), a.GeneratedAt)
	assert.Len(t, a.Series, 20)
}

func TestAssess_NoData(t *testing.T) {
	p := newTestPlanner(newStubSource(nil))

	_, err := p.Assess(context.Background(), testLocation, window(1, 10), domain.DefaultThresholds())
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestAssess_InvalidWindow(t *testing.T) {
	source := newStubSource(seriesWithScore(5, 0, 0))
	p := newTestPlanner(source)

	inverted := domain.DateWindow{
		Start: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := p.Assess(context.Background(), testLocation, inverted, domain.DefaultThresholds())

	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
	assert.Equal(t, 0, source.calls())
}
