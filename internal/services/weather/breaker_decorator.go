package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"weather-cli/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

type client interface {
	Fetch(ctx context.Context, city string) (models.WeatherData, error)
}

// BreakerClient fails fast once the wrapped provider keeps erroring, instead
// of hammering a service that is already down. A "city not found" answer is a
// successful provider interaction and never trips the circuit.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCityNotFound)
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Fetch(ctx context.Context, city string) (models.WeatherData, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, city)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return models.WeatherData{},
				fmt.Errorf("%s %w: %v", b.name, ErrProviderUnavailable, err)
		}
		return models.WeatherData{}, err
	}
	res, ok := result.(models.WeatherData)
	if !ok {
		return models.WeatherData{},
			fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}
