package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"

	"github.com/Anna948/WeatherWise-Pro/internal/adapter/httpapi"
	kafkaadapter "github.com/Anna948/WeatherWise-Pro/internal/adapter/kafka"
	"github.com/Anna948/WeatherWise-Pro/internal/adapter/nasapower"
	"github.com/Anna948/WeatherWise-Pro/internal/adapter/openmeteo"
	"github.com/Anna948/WeatherWise-Pro/internal/config"
	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/observability"
	"github.com/Anna948/WeatherWise-Pro/internal/planner"
	"github.com/Anna948/WeatherWise-Pro/internal/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	power := nasapower.NewClient(nasapower.Config{
		BaseURL:    cfg.PowerBaseURL,
		Timeout:    cfg.PowerTimeout,
		MaxRetries: cfg.PowerMaxRetries,
		Years:      cfg.HistoricalYears,
	}, clock, metrics, logger)
	source := nasapower.NewCachedSource(power, cfg.CacheSize, metrics)

	p := planner.New(source, logger, metrics, clock, cfg.FetchConcurrency)
	forecaster := openmeteo.NewClient(cfg.OpenMeteoBaseURL, cfg.OpenMeteoTimeout, metrics, logger)
	reports := report.NewBuilder(clock, metrics)

	// Assessment events are feature-flagged via KAFKA_ENABLED.
	var publisher httpapi.AssessmentPublisher
	var closePublisher func() error
	if cfg.KafkaEnabled {
		kp := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger, metrics)
		publisher = kp
		closePublisher = kp.Close
		logger.Info("assessment events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("assessment events disabled")
	}

	thresholds := domain.Thresholds{
		HotC:   cfg.HotThresholdC,
		RainMM: cfg.RainThresholdMM,
		ColdC:  cfg.ColdThresholdC,
	}
	srv := httpapi.NewServer(cfg.HTTPAddr, p, p, forecaster, reports, publisher, thresholds, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closePublisher != nil {
		if err := closePublisher(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
