package nasapower

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/observability"
)

// countingSource returns a fixed answer and counts invocations.
type countingSource struct {
	calls  int
	series domain.Series
	err    error
}

func (s *countingSource) FetchDaily(_ context.Context, _ domain.Location, _ domain.DateWindow) (domain.Series, error) {
	s.calls++
	return s.series, s.err
}

func someSeries() domain.Series {
	return domain.Series{{
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		MaxTempC: 30,
		PrecipMM: 2,
	}}
}

func windowAt(day int) domain.DateWindow {
	start := time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC)
	return domain.DateWindow{Start: start, End: start.AddDate(0, 0, 4)}
}

func TestCachedSource_HitAndMiss(t *testing.T) {
	inner := &countingSource{series: someSeries()}
	cached := NewCachedSource(inner, 10, observability.NewMetricsForTesting())

	first, err := cached.FetchDaily(context.Background(), testLocation, windowAt(1))
	require.NoError(t, err)
	second, err := cached.FetchDaily(context.Background(), testLocation, windowAt(1))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	// A different window misses.
	_, err = cached.FetchDaily(context.Background(), testLocation, windowAt(2))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_DistinctLocations(t *testing.T) {
	inner := &countingSource{series: someSeries()}
	cached := NewCachedSource(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.FetchDaily(context.Background(), domain.Location{Lat: 10, Lon: 20}, windowAt(1))
	require.NoError(t, err)
	_, err = cached.FetchDaily(context.Background(), domain.Location{Lat: 10.5, Lon: 20}, windowAt(1))
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_EmptyNotCached(t *testing.T) {
	inner := &countingSource{series: nil}
	cached := NewCachedSource(inner, 10, observability.NewMetricsForTesting())

	for range 3 {
		_, err := cached.FetchDaily(context.Background(), testLocation, windowAt(1))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestCachedSource_ErrorsPassThrough(t *testing.T) {
	inner := &countingSource{err: errors.New("upstream down")}
	cached := NewCachedSource(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.FetchDaily(context.Background(), testLocation, windowAt(1))
	require.Error(t, err)
	_, err = cached.FetchDaily(context.Background(), testLocation, windowAt(1))
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_Eviction(t *testing.T) {
	inner := &countingSource{series: someSeries()}
	cached := NewCachedSource(inner, 2, observability.NewMetricsForTesting())

	ctx := context.Background()
	_, _ = cached.FetchDaily(ctx, testLocation, windowAt(1))
	_, _ = cached.FetchDaily(ctx, testLocation, windowAt(2))
	_, _ = cached.FetchDaily(ctx, testLocation, windowAt(3)) // evicts windowAt(1)
	require.Equal(t, 3, inner.calls)

	_, _ = cached.FetchDaily(ctx, testLocation, windowAt(3)) // hit
	assert.Equal(t, 3, inner.calls)

	_, _ = cached.FetchDaily(ctx, testLocation, windowAt(1)) // evicted, refetch
	assert.Equal(t, 4, inner.calls)
}
