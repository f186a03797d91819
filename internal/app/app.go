package app

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"weather-cli/internal/config"
	"weather-cli/internal/handlers/menu"
	"weather-cli/internal/services/favourites"
	loggerSvc "weather-cli/internal/services/logger"
	weatherSvc "weather-cli/internal/services/weather"
	fLogger "weather-cli/pkg/logger"
)

// App ties together config and logging for the interactive session.
type App struct {
	cfg config.Config
	l   zerolog.Logger
}

// New prepares a new App with the given config and zerolog logger.
func New(cfg config.Config, logger zerolog.Logger) *App {
	return &App{
		cfg: cfg,
		l:   logger,
	}
}

// Run wires the provider client, circuit breaker, favourites service and menu
// handler, then drives the menu loop against in/out until it finishes.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	a.l.Info().
		Str("provider_url", a.cfg.OpenWeatherURL).
		Msg("initializing weather cli")

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create HTTP traffic logger")
		fileLogger = zap.NewNop()
	}
	defer func(logger *zap.Logger) {
		if sErr := logger.Sync(); sErr != nil {
			a.l.Error().Err(sErr).Msg("failed to sync HTTP traffic logger")
		}
	}(fileLogger)

	// Every provider call goes through the logging transport.
	roundTripper := loggerSvc.NewRoundTripper(fileLogger)
	httpClient := &http.Client{
		Transport: roundTripper,
		Timeout:   time.Duration(a.cfg.HTTPTimeout) * time.Second,
	}

	breakerCfg := weatherSvc.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	openWeather := weatherSvc.NewBreakerClient("OpenWeather", breakerCfg,
		weatherSvc.NewClientOpenWeatherMap(a.cfg.OpenWeatherAPIKey, a.cfg.OpenWeatherURL, httpClient, a.l),
	)

	favouritesService := favourites.NewService(openWeather, a.l)
	menuHandler := menu.NewHandler(openWeather, favouritesService, in, out, a.l)

	a.l.Info().Msg("weather cli initialized")

	if err := menuHandler.Run(ctx); err != nil {
		a.l.Error().Err(err).Msg("menu loop failed")
		return err
	}

	a.l.Info().Msg("weather cli finished")
	return nil
}
