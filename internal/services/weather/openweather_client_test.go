//go:build unit

package weather_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weather-cli/internal/models"
	"weather-cli/internal/services/weather"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok {
		return &http.Response{}, args.Error(1)
	}
	return resp, args.Error(1)
}

func Test_OpenWeather_Fetch_Success(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body: io.NopCloser(strings.NewReader(
				`{
				  "name": "London",
				  "sys": {"country": "GB"},
				  "main": {
					"temp": 18.3,
					"feels_like": 17.9,
					"humidity": 60
				  },
				  "weather": [
					{"description": "scattered clouds"}
				  ],
				  "wind": {"speed": 3.4}
				}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("1234567890", "", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "london")
	assert.NoError(t, err)
	assert.Equal(t, "London", data.City.Name)
	assert.Equal(t, "GB", data.City.Country)
	assert.Equal(t, "scattered clouds", data.Current.Description)
	assert.Equal(t, 18.3, data.Current.Temperature)
	assert.Equal(t, 17.9, data.Current.FeelsLike)
	assert.Equal(t, 60, data.Current.Humidity)
	assert.Equal(t, 3.4, data.Current.WindSpeed)
}

func Test_OpenWeather_Fetch_BuildsMetricQuery(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return q.Get("q") == "Kyiv" &&
			q.Get("appid") == "1234567890" &&
			q.Get("units") == "metric"
	})).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body: io.NopCloser(strings.NewReader(
				`{"name": "Kyiv", "sys": {"country": "UA"},
				"main": {"temp": 10.0, "feels_like": 8.0, "humidity": 70},
				"weather": [{"description": "light rain"}],
				"wind": {"speed": 5.1}}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("1234567890", "", m, zerolog.Nop())

	_, err := client.Fetch(ctx, "Kyiv")
	assert.NoError(t, err)
}

func Test_OpenWeather_Fetch_CityNotFound(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`{"cod": "404", "message": "city not found"}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("1234567890", "", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "UnknownCity")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrCityNotFound)
	assert.Contains(t, err.Error(), "UnknownCity")
	assert.Equal(t, models.WeatherData{}, data)
}

func Test_OpenWeather_Fetch_InvalidAPIKey(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"cod": 401, "message": "Invalid API key"}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("bad-key", "", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "London")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Equal(t, models.WeatherData{}, data)
}

func Test_OpenWeather_Fetch_APIError(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader(`{"error": "Internal server error"}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("1234567890", "", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "London")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Equal(t, models.WeatherData{}, data)
}

func Test_OpenWeather_Fetch_TransportError(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("1234567890", "", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "London")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Equal(t, models.WeatherData{}, data)
}

func Test_OpenWeather_Fetch_InvalidBaseURL(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	client := weather.NewClientOpenWeatherMap("1234567890", "://not-a-url", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "London")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Equal(t, models.WeatherData{}, data)
	m.AssertNotCalled(t, "Do", mock.Anything)
}

func Test_OpenWeather_Fetch_MalformedBody(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"name": "London", "main": `)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("1234567890", "", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "London")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Equal(t, models.WeatherData{}, data)
}

func Test_OpenWeather_Fetch_MissingFallbacks(t *testing.T) {
	ctx := context.Background()

	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body: io.NopCloser(strings.NewReader(
				`{"main": {"temp": 1.0, "feels_like": -2.0, "humidity": 80}}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewClientOpenWeatherMap("1234567890", "", m, zerolog.Nop())

	data, err := client.Fetch(ctx, "Somewhere")
	assert.NoError(t, err)
	assert.Equal(t, "Somewhere", data.City.Name)
	assert.Equal(t, "N/A", data.Current.Description)
}
