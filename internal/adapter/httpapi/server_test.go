package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anna948/WeatherWise-Pro/internal/adapter/httpapi"
	"github.com/Anna948/WeatherWise-Pro/internal/adapter/openmeteo"
	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/planner"
)

type mockPlanner struct {
	outcome    planner.SearchOutcome
	searchErr  error
	assessment planner.Assessment
	assessErr  error
	readyErr   error

	lastDuration   int
	lastThresholds domain.Thresholds
}

func (m *mockPlanner) FindBestWindow(_ context.Context, _ domain.Location, _ domain.DateWindow, t domain.Thresholds, d int) (planner.SearchOutcome, error) {
	m.lastDuration = d
	m.lastThresholds = t
	return m.outcome, m.searchErr
}

func (m *mockPlanner) Assess(_ context.Context, _ domain.Location, _ domain.DateWindow, t domain.Thresholds) (planner.Assessment, error) {
	m.lastThresholds = t
	return m.assessment, m.assessErr
}

func (m *mockPlanner) CheckReadiness(_ context.Context) error { return m.readyErr }

type mockForecaster struct {
	days []openmeteo.ForecastDay
	err  error
}

func (m *mockForecaster) FetchDaily(_ context.Context, _ domain.Location, _ int) ([]openmeteo.ForecastDay, error) {
	return m.days, m.err
}

type mockReports struct {
	pdf            []byte
	err            error
	gotComparison  bool
	buildCallCount int
}

func (m *mockReports) Build(_ planner.Assessment, comparison *planner.Assessment) ([]byte, error) {
	m.buildCallCount++
	m.gotComparison = comparison != nil
	return m.pdf, m.err
}

type mockPublisher struct {
	published []string
	err       error
}

func (m *mockPublisher) PublishAssessment(_ context.Context, a *planner.Assessment) error {
	m.published = append(m.published, a.ID)
	return m.err
}

type serverFixture struct {
	planner    *mockPlanner
	forecaster *mockForecaster
	reports    *mockReports
	publisher  *mockPublisher
	srv        *httpapi.Server
}

func newFixture() *serverFixture {
	f := &serverFixture{
		planner:    &mockPlanner{},
		forecaster: &mockForecaster{},
		reports:    &mockReports{pdf: []byte("%PDF-1.3 test")},
		publisher:  &mockPublisher{},
	}
	f.srv = httpapi.NewServer(":0", f.planner, f.planner, f.forecaster, f.reports, f.publisher,
		domain.DefaultThresholds(), slog.New(slog.DiscardHandler))
	return f
}

func (f *serverFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	f.srv.ServeHTTP(rec, req)
	return rec
}

func bestWindowBody() map[string]any {
	return map[string]any{
		"location":      map[string]float64{"lat": 40.7, "lon": -74.0},
		"start":         "2026-06-01",
		"end":           "2026-06-30",
		"duration_days": 3,
	}
}

func TestHealthzReturns200(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodGet, "/readyz", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		f := newFixture()
		f.planner.readyErr = fmt.Errorf("no successful historical fetch yet")
		rec := f.do(http.MethodGet, "/readyz", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body["status"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestBestWindow(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture()
		start := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
		window, err := domain.NewDateWindow(start, start.AddDate(0, 0, 2))
		require.NoError(t, err)
		f.planner.outcome = planner.SearchOutcome{Found: true, Window: window, Score: 4}

		rec := f.do(http.MethodPost, "/v1/best-window", bestWindowBody())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, f.planner.lastDuration)

		var out planner.SearchOutcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.True(t, out.Found)
		assert.Equal(t, 4, out.Score)
	})

	t.Run("not found still 200", func(t *testing.T) {
		f := newFixture()
		f.planner.outcome = planner.SearchOutcome{Found: false}

		rec := f.do(http.MethodPost, "/v1/best-window", bestWindowBody())

		assert.Equal(t, http.StatusOK, rec.Code)

		var out planner.SearchOutcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.False(t, out.Found)
	})

	t.Run("invalid duration is 400", func(t *testing.T) {
		f := newFixture()
		f.planner.searchErr = fmt.Errorf("duration 0: %w", domain.ErrInvalidDuration)

		body := bestWindowBody()
		body["duration_days"] = 3
		rec := f.do(http.MethodPost, "/v1/best-window", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reversed dates are 400", func(t *testing.T) {
		f := newFixture()
		body := bestWindowBody()
		body["start"] = "2026-06-30"
		body["end"] = "2026-06-01"
		rec := f.do(http.MethodPost, "/v1/best-window", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed date is 400", func(t *testing.T) {
		f := newFixture()
		body := bestWindowBody()
		body["start"] = "June 1st"
		rec := f.do(http.MethodPost, "/v1/best-window", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("latitude out of range is 400", func(t *testing.T) {
		f := newFixture()
		body := bestWindowBody()
		body["location"] = map[string]float64{"lat": 95.0, "lon": 0}
		rec := f.do(http.MethodPost, "/v1/best-window", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid JSON is 400", func(t *testing.T) {
		f := newFixture()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/best-window", bytes.NewBufferString("{not json"))
		f.srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("custom thresholds forwarded", func(t *testing.T) {
		f := newFixture()
		body := bestWindowBody()
		body["thresholds"] = map[string]float64{"hot_c": 28, "rain_mm": 5, "cold_c": 10}
		rec := f.do(http.MethodPost, "/v1/best-window", body)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.Thresholds{HotC: 28, RainMM: 5, ColdC: 10}, f.planner.lastThresholds)
	})

	t.Run("default thresholds when omitted", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodPost, "/v1/best-window", bestWindowBody())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.DefaultThresholds(), f.planner.lastThresholds)
	})
}

func TestAssessments(t *testing.T) {
	body := map[string]any{
		"location": map[string]float64{"lat": 40.7, "lon": -74.0},
		"start":    "2026-06-01",
		"end":      "2026-06-10",
	}

	t.Run("success publishes event", func(t *testing.T) {
		f := newFixture()
		f.planner.assessment = planner.Assessment{ID: "assess-1"}

		rec := f.do(http.MethodPost, "/v1/assessments", body)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"assess-1"}, f.publisher.published)

		var out planner.Assessment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "assess-1", out.ID)
	})

	t.Run("publish failure does not fail request", func(t *testing.T) {
		f := newFixture()
		f.planner.assessment = planner.Assessment{ID: "assess-2"}
		f.publisher.err = fmt.Errorf("broker down")

		rec := f.do(http.MethodPost, "/v1/assessments", body)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no data is 404", func(t *testing.T) {
		f := newFixture()
		f.planner.assessErr = fmt.Errorf("assess: %w", domain.ErrNoData)

		rec := f.do(http.MethodPost, "/v1/assessments", body)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("upstream failure is 500", func(t *testing.T) {
		f := newFixture()
		f.planner.assessErr = fmt.Errorf("boom")

		rec := f.do(http.MethodPost, "/v1/assessments", body)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestForecast(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.forecaster.days = []openmeteo.ForecastDay{
			{Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), MaxTempC: 28.5, MinTempC: 17.2, PrecipMM: 0.4},
		}

		rec := f.do(http.MethodGet, "/v1/forecast?lat=40.7&lon=-74.0&days=7", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "2026-06-01")
	})

	t.Run("missing lat is 400", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodGet, "/v1/forecast?lon=-74.0", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("latitude out of range is 400", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodGet, "/v1/forecast?lat=120&lon=-74.0", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure is 502", func(t *testing.T) {
		f := newFixture()
		f.forecaster.err = fmt.Errorf("upstream timeout")

		rec := f.do(http.MethodGet, "/v1/forecast?lat=40.7&lon=-74.0", nil)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestReports(t *testing.T) {
	primary := map[string]any{
		"location": map[string]float64{"lat": 40.7, "lon": -74.0},
		"start":    "2026-06-01",
		"end":      "2026-06-10",
	}

	t.Run("single location", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodPost, "/v1/reports", map[string]any{"primary": primary})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
		assert.False(t, f.reports.gotComparison)
	})

	t.Run("with comparison", func(t *testing.T) {
		f := newFixture()
		comparison := map[string]any{
			"location": map[string]float64{"lat": 34.0, "lon": -118.2},
			"start":    "2026-06-01",
			"end":      "2026-06-10",
		}
		rec := f.do(http.MethodPost, "/v1/reports", map[string]any{
			"primary":    primary,
			"comparison": comparison,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, f.reports.gotComparison)
	})

	t.Run("no data is 404", func(t *testing.T) {
		f := newFixture()
		f.planner.assessErr = fmt.Errorf("assess: %w", domain.ErrNoData)

		rec := f.do(http.MethodPost, "/v1/reports", map[string]any{"primary": primary})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Zero(t, f.reports.buildCallCount)
	})

	t.Run("build failure is 500", func(t *testing.T) {
		f := newFixture()
		f.reports.err = fmt.Errorf("render failed")

		rec := f.do(http.MethodPost, "/v1/reports", map[string]any{"primary": primary})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
