package config

import (
	"errors"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// ErrMissingAPIKey reports an absent or blank OpenWeather credential. It is
// fatal at startup, before any menu interaction.
var ErrMissingAPIKey = errors.New("API key not found: set the OPENWEATHER_API_KEY environment variable")

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"3"`
}

type Config struct {
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY"`
	OpenWeatherURL    string `envconfig:"OPENWEATHER_API_URL" default:"https://api.openweathermap.org/data/2.5/weather"`

	HTTPTimeout int `envconfig:"HTTP_TIMEOUT" default:"5"`

	Breaker Breaker

	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-cli.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/weather-cli-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.OpenWeatherAPIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return &cfg, nil
}
