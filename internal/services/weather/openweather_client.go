package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"weather-cli/internal/models"
)

// Sentinel errors callers match with errors.Is. A definite "no such city"
// answer from the provider is ErrCityNotFound; every network, auth or
// malformed-response failure is ErrProviderUnavailable.
var (
	ErrCityNotFound        = errors.New("city not found")
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type apiResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// ClientOpenWeatherMap fetches current weather data from the OpenWeatherMap API.
type ClientOpenWeatherMap struct {
	APIKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{APIKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

// Fetch resolves a city name and returns its current conditions. No retries;
// errors surface directly to the caller.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, city string) (models.WeatherData, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", s.APIKey)
	params.Set("units", "metric")
	reqURL := s.apiURL + "?" + params.Encode()

	s.logger.Debug().
		Str("city", city).
		Msg("starting OpenWeatherMap request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("failed to create HTTP request")
		return models.WeatherData{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("error sending HTTP request to OpenWeatherMap")
		return models.WeatherData{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Err(cerr).
				Str("city", city).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		s.logger.Info().
			Str("city", city).
			Msg("OpenWeatherMap does not know this city")
		return models.WeatherData{}, fmt.Errorf("city %q: %w", city, ErrCityNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Error().
			Str("city", city).
			Str("status", resp.Status).
			Msg("OpenWeatherMap API returned non-200 status")
		return models.WeatherData{}, fmt.Errorf("%w: status %s", ErrProviderUnavailable, resp.Status)
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("failed to decode OpenWeatherMap response")
		return models.WeatherData{}, fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
	}

	data := mapResponse(city, raw)

	s.logger.Info().
		Str("city", data.City.Name).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return data, nil
}

func mapResponse(requested string, raw apiResponse) models.WeatherData {
	name := raw.Name
	if name == "" {
		name = requested
	}
	description := "N/A"
	if len(raw.Weather) > 0 {
		description = raw.Weather[0].Description
	}
	return models.WeatherData{
		City: models.City{Name: name, Country: raw.Sys.Country},
		Current: models.WeatherRecord{
			Description: description,
			Temperature: raw.Main.Temp,
			FeelsLike:   raw.Main.FeelsLike,
			Humidity:    raw.Main.Humidity,
			WindSpeed:   raw.Wind.Speed,
		},
	}
}
