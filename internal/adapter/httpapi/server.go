// Package httpapi exposes the planning service over HTTP: best-window
// search, risk assessments, forecasts, PDF reports, plus health and
// metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Anna948/WeatherWise-Pro/internal/adapter/openmeteo"
	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/planner"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// EventPlanner runs window searches and risk assessments.
type EventPlanner interface {
	FindBestWindow(ctx context.Context, loc domain.Location, searchRange domain.DateWindow, thresholds domain.Thresholds, durationDays int) (planner.SearchOutcome, error)
	Assess(ctx context.Context, loc domain.Location, window domain.DateWindow, thresholds domain.Thresholds) (planner.Assessment, error)
}

// Forecaster fetches a short-range daily forecast.
type Forecaster interface {
	FetchDaily(ctx context.Context, loc domain.Location, days int) ([]openmeteo.ForecastDay, error)
}

// ReportBuilder renders assessments into a PDF document.
type ReportBuilder interface {
	Build(primary planner.Assessment, comparison *planner.Assessment) ([]byte, error)
}

// AssessmentPublisher emits completed assessments to downstream consumers.
type AssessmentPublisher interface {
	PublishAssessment(ctx context.Context, a *planner.Assessment) error
}

// Server exposes the planning API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	planner    EventPlanner
	ready      ReadinessChecker
	forecaster Forecaster
	reports    ReportBuilder
	publisher  AssessmentPublisher
	defaults   domain.Thresholds
	validate   *validator.Validate
}

// NewServer wires the API routes. publisher may be nil when assessment
// events are disabled.
func NewServer(addr string, p EventPlanner, ready ReadinessChecker, forecaster Forecaster, reports ReportBuilder, publisher AssessmentPublisher, defaults domain.Thresholds, logger *slog.Logger) *Server {
	s := &Server{
		logger:     logger,
		planner:    p,
		ready:      ready,
		forecaster: forecaster,
		reports:    reports,
		publisher:  publisher,
		defaults:   defaults,
		validate:   validator.New(),
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/best-window", s.handleBestWindow)
		r.Post("/assessments", s.handleAssessment)
		r.Get("/forecast", s.handleForecast)
		r.Post("/reports", s.handleReport)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type locationDTO struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type thresholdsDTO struct {
	HotC   float64 `json:"hot_c"`
	RainMM float64 `json:"rain_mm"`
	ColdC  float64 `json:"cold_c"`
}

type bestWindowRequest struct {
	Location     locationDTO    `json:"location"`
	Start        string         `json:"start" validate:"required,datetime=2006-01-02"`
	End          string         `json:"end" validate:"required,datetime=2006-01-02"`
	DurationDays int            `json:"duration_days" validate:"required,min=1"`
	Thresholds   *thresholdsDTO `json:"thresholds"`
}

type assessmentRequest struct {
	Location   locationDTO    `json:"location"`
	Start      string         `json:"start" validate:"required,datetime=2006-01-02"`
	End        string         `json:"end" validate:"required,datetime=2006-01-02"`
	Thresholds *thresholdsDTO `json:"thresholds"`
}

type reportRequest struct {
	Primary    assessmentRequest  `json:"primary"`
	Comparison *assessmentRequest `json:"comparison"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleBestWindow(w http.ResponseWriter, r *http.Request) {
	var req bestWindowRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	window, ok := s.parseWindow(w, req.Start, req.End)
	if !ok {
		return
	}

	outcome, err := s.planner.FindBestWindow(r.Context(), location(req.Location), window, s.thresholds(req.Thresholds), req.DurationDays)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWindow) || errors.Is(err, domain.ErrInvalidDuration) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("best window search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	assessment, ok := s.assess(r.Context(), w, req)
	if !ok {
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAssessment(r.Context(), &assessment); err != nil {
			s.logger.Warn("assessment publish failed", "id", assessment.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a number")
		return
	}
	loc := locationDTO{Lat: lat, Lon: lon}
	if err := s.validate.Struct(loc); err != nil {
		writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}
	days := openmeteo.MaxForecastDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
	}

	forecast, err := s.forecaster.FetchDaily(r.Context(), location(loc), days)
	if err != nil {
		s.logger.Error("forecast fetch failed", "lat", lat, "lon", lon, "error", err)
		writeError(w, http.StatusBadGateway, "forecast provider unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"location": location(loc),
		"days":     forecast,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	primary, ok := s.assess(r.Context(), w, req.Primary)
	if !ok {
		return
	}
	var comparison *planner.Assessment
	if req.Comparison != nil {
		c, ok := s.assess(r.Context(), w, *req.Comparison)
		if !ok {
			return
		}
		comparison = &c
	}

	pdf, err := s.reports.Build(primary, comparison)
	if err != nil {
		s.logger.Error("report build failed", "error", err)
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="weather-risk-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf) //nolint:errcheck // client may have gone away
}

// assess runs an assessment for a request and writes the error response
// itself when the assessment cannot be produced.
func (s *Server) assess(ctx context.Context, w http.ResponseWriter, req assessmentRequest) (planner.Assessment, bool) {
	window, ok := s.parseWindow(w, req.Start, req.End)
	if !ok {
		return planner.Assessment{}, false
	}
	assessment, err := s.planner.Assess(ctx, location(req.Location), window, s.thresholds(req.Thresholds))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidWindow):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNoData):
			writeError(w, http.StatusNotFound, "no historical data for this location and window")
		default:
			s.logger.Error("assessment failed", "error", err)
			writeError(w, http.StatusInternalServerError, "assessment failed")
		}
		return planner.Assessment{}, false
	}
	return assessment, true
}

func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) parseWindow(w http.ResponseWriter, start, end string) (domain.DateWindow, bool) {
	from, err := time.Parse(domain.DateFormat, start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return domain.DateWindow{}, false
	}
	to, err := time.Parse(domain.DateFormat, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return domain.DateWindow{}, false
	}
	window, err := domain.NewDateWindow(from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.DateWindow{}, false
	}
	return window, true
}

func (s *Server) thresholds(dto *thresholdsDTO) domain.Thresholds {
	if dto == nil {
		return s.defaults
	}
	return domain.Thresholds{HotC: dto.HotC, RainMM: dto.RainMM, ColdC: dto.ColdC}
}

func location(dto locationDTO) domain.Location {
	return domain.Location{Lat: dto.Lat, Lon: dto.Lon}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
