package favourites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"weather-cli/internal/models"
)

// MaxFavourites caps how many cities a user can track.
const MaxFavourites = 3

var (
	ErrFavouritesFull  = errors.New("favourites list is full")
	ErrDuplicateCity   = errors.New("city is already in favourites")
	ErrIndexOutOfRange = errors.New("favourite index out of range")
)

type weatherProvider interface {
	Fetch(ctx context.Context, city string) (models.WeatherData, error)
}

// Entry pairs a favourite city with the outcome of its latest weather lookup.
type Entry struct {
	City    models.City
	Current models.WeatherRecord
	Err     error
}

// Service owns the ordered favourites list. The list lives for the process
// only and is used from a single goroutine, so there is no locking.
type Service struct {
	provider weatherProvider
	logger   zerolog.Logger
	cities   []models.City
}

func NewService(provider weatherProvider, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger.With().Str("component", "favourites").Logger(),
		cities:   make([]models.City, 0, MaxFavourites),
	}
}

// Add validates cityName against the provider and appends the resolved city.
// The stored name is the provider's canonical spelling, so later duplicate
// checks collide on any user spelling of the same city.
func (s *Service) Add(ctx context.Context, cityName string) (models.City, error) {
	if len(s.cities) >= MaxFavourites {
		s.logger.Info().
			Str("city", cityName).
			Msg("favourites list is full")
		return models.City{}, ErrFavouritesFull
	}

	data, err := s.provider.Fetch(ctx, cityName)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", cityName).
			Msg("validation fetch failed")
		return models.City{}, err
	}

	if s.indexOf(data.City.Name) >= 0 {
		s.logger.Info().
			Str("city", data.City.Name).
			Msg("city is already favourited")
		return models.City{}, fmt.Errorf("%q: %w", data.City.Name, ErrDuplicateCity)
	}

	s.cities = append(s.cities, data.City)
	s.logger.Info().
		Str("city", data.City.String()).
		Int("count", len(s.cities)).
		Msg("favourite added")
	return data.City, nil
}

// List fetches fresh weather for every favourite in insertion order. A failed
// lookup fills that entry's Err and listing continues with the rest.
func (s *Service) List(ctx context.Context) []Entry {
	entries := make([]Entry, 0, len(s.cities))
	for _, city := range s.cities {
		data, err := s.provider.Fetch(ctx, city.Name)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("city", city.Name).
				Msg("weather refresh failed")
			entries = append(entries, Entry{City: city, Err: err})
			continue
		}
		entries = append(entries, Entry{City: city, Current: data.Current})
	}
	return entries
}

// Remove deletes the favourite at index (0-based) and returns it.
func (s *Service) Remove(index int) (models.City, error) {
	if index < 0 || index >= len(s.cities) {
		return models.City{}, fmt.Errorf("index %d: %w", index, ErrIndexOutOfRange)
	}
	removed := s.cities[index]
	s.cities = append(s.cities[:index], s.cities[index+1:]...)
	s.logger.Info().
		Str("city", removed.String()).
		Int("count", len(s.cities)).
		Msg("favourite removed")
	return removed, nil
}

// Update swaps the favourite at index for newCityName. The swap either fully
// succeeds or leaves the list unchanged: the new city is validated before the
// old one is touched, and the replacement occupies the same slot. Resolving
// to the city already in that slot is a no-op swap, not a duplicate.
func (s *Service) Update(ctx context.Context, index int, newCityName string) (models.City, error) {
	if index < 0 || index >= len(s.cities) {
		return models.City{}, fmt.Errorf("index %d: %w", index, ErrIndexOutOfRange)
	}

	data, err := s.provider.Fetch(ctx, newCityName)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", newCityName).
			Msg("validation fetch failed")
		return models.City{}, err
	}

	if at := s.indexOf(data.City.Name); at >= 0 && at != index {
		s.logger.Info().
			Str("city", data.City.Name).
			Msg("city is already favourited")
		return models.City{}, fmt.Errorf("%q: %w", data.City.Name, ErrDuplicateCity)
	}

	replaced := s.cities[index]
	s.cities[index] = data.City
	s.logger.Info().
		Str("removed", replaced.String()).
		Str("added", data.City.String()).
		Msg("favourite replaced")
	return data.City, nil
}

// Cities returns a copy of the favourites in insertion order.
func (s *Service) Cities() []models.City {
	out := make([]models.City, len(s.cities))
	copy(out, s.cities)
	return out
}

func (s *Service) indexOf(name string) int {
	for i, city := range s.cities {
		if normalize(city.Name) == normalize(name) {
			return i
		}
	}
	return -1
}

// normalize produces the identity key for duplicate checks: trimmed,
// case-folded city name.
func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
