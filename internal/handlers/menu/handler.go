package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"weather-cli/internal/models"
	"weather-cli/internal/services/favourites"
	"weather-cli/internal/services/weather"
)

const timeoutDuration = 30 * time.Second

const apiKeyEnvVar = "OPENWEATHER_API_KEY"

type weatherService interface {
	Fetch(ctx context.Context, city string) (models.WeatherData, error)
}

type favouritesService interface {
	Add(ctx context.Context, cityName string) (models.City, error)
	List(ctx context.Context) []favourites.Entry
	Update(ctx context.Context, index int, newCityName string) (models.City, error)
	Cities() []models.City
}

// Handler owns the interactive menu loop. It reads choices from in and writes
// everything the user sees to out; the services behind it never touch stdout.
type Handler struct {
	weather    weatherService
	favourites favouritesService
	scanner    *bufio.Scanner
	out        io.Writer
	titler     cases.Caser
	logger     zerolog.Logger
}

func NewHandler(
	weatherSvc weatherService,
	favouritesSvc favouritesService,
	in io.Reader,
	out io.Writer,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		weather:    weatherSvc,
		favourites: favouritesSvc,
		scanner:    bufio.NewScanner(in),
		out:        out,
		titler:     cases.Title(language.English),
		logger:     logger.With().Str("component", "menu").Logger(),
	}
}

// Run drives the menu until the user picks Exit, input ends or ctx is
// cancelled. A cancelled ctx is noticed between iterations; the current
// prompt still has to be answered first.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info().Msg("menu started")

	fmt.Fprintln(h.out, "Welcome to the OpenWeather CLI app!")
	fmt.Fprintf(h.out, "Make sure your API key is set in the %s environment variable.\n\n", apiKeyEnvVar)

	for {
		if ctx.Err() != nil {
			h.logger.Info().Msg("context cancelled, leaving menu")
			return nil
		}

		h.printMenu()
		choice, ok := h.readLine("Choose an option (1-5): ")
		if !ok {
			h.logger.Info().Msg("input closed, leaving menu")
			return nil
		}
		fmt.Fprintln(h.out)

		h.logger.Debug().Str("choice", choice).Msg("menu option selected")

		switch choice {
		case "1":
			h.searchFlow(ctx)
		case "2":
			h.addFlow(ctx)
		case "3":
			h.listFlow(ctx)
		case "4":
			h.updateFlow(ctx)
		case "5":
			fmt.Fprintln(h.out, "Goodbye!")
			h.logger.Info().Msg("menu exited")
			return nil
		default:
			fmt.Fprintf(h.out, "Invalid choice. Please select 1-5.\n\n")
		}
	}
}

func (h *Handler) printMenu() {
	fmt.Fprintln(h.out, "Weather CLI")
	fmt.Fprintln(h.out, "-----------")
	fmt.Fprintln(h.out, "1. Search weather for a city")
	fmt.Fprintln(h.out, "2. Add a city to favourites")
	fmt.Fprintln(h.out, "3. List favourite cities and their weather")
	fmt.Fprintln(h.out, "4. Update favourite cities (remove & add)")
	fmt.Fprintln(h.out, "5. Exit")
}

func (h *Handler) searchFlow(ctx context.Context) {
	city, ok := h.promptCityName()
	if !ok {
		return
	}
	if city == "" {
		fmt.Fprintf(h.out, "Search cancelled.\n\n")
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	data, err := h.weather.Fetch(opCtx, city)
	if err != nil {
		h.renderError(err, city)
		return
	}

	h.printWeather(data)
}

func (h *Handler) addFlow(ctx context.Context) {
	if len(h.favourites.Cities()) >= favourites.MaxFavourites {
		fmt.Fprintf(h.out, "You already have %d favourite cities. "+
			"Use 'Update Favourite Cities' to change them.\n\n", favourites.MaxFavourites)
		return
	}

	city, ok := h.promptCityName()
	if !ok {
		return
	}
	if city == "" {
		fmt.Fprintf(h.out, "Add favourite cancelled.\n\n")
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	added, err := h.favourites.Add(opCtx, city)
	if err != nil {
		h.renderError(err, city)
		return
	}

	fmt.Fprintf(h.out, "Added '%s' to favourites.\n\n", added.Name)
}

func (h *Handler) listFlow(ctx context.Context) {
	if len(h.favourites.Cities()) == 0 {
		fmt.Fprintf(h.out, "You have no favourite cities yet.\n\n")
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	entries := h.favourites.List(opCtx)

	fmt.Fprintln(h.out, "\nFavourite cities and their current weather:")
	fmt.Fprintln(h.out, "-------------------------------------------")
	for i, entry := range entries {
		fmt.Fprintf(h.out, "\n[%d] %s\n", i+1, entry.City.Name)
		if entry.Err != nil {
			fmt.Fprintf(h.out, "  Error fetching weather for '%s': %v\n\n", entry.City.Name, entry.Err)
			continue
		}
		h.printWeather(models.WeatherData{City: entry.City, Current: entry.Current})
	}
}

func (h *Handler) updateFlow(ctx context.Context) {
	cities := h.favourites.Cities()
	if len(cities) == 0 {
		fmt.Fprintf(h.out, "You have no favourite cities to update. "+
			"Use 'Add a City to Favourites' first.\n\n")
		return
	}

	fmt.Fprintln(h.out, "\nCurrent favourites:")
	for i, city := range cities {
		fmt.Fprintf(h.out, "  %d. %s\n", i+1, city.Name)
	}

	line, ok := h.readLine("Enter the number of the city to remove: ")
	if !ok {
		return
	}
	choice, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintf(h.out, "Invalid input. Please enter a number.\n\n")
		return
	}
	if choice < 1 || choice > len(cities) {
		fmt.Fprintf(h.out, "Choice out of range.\n\n")
		return
	}

	city, ok := h.promptCityName()
	if !ok {
		return
	}
	if city == "" {
		fmt.Fprintf(h.out, "Update cancelled. No new city added.\n\n")
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	replaced := cities[choice-1]
	added, err := h.favourites.Update(opCtx, choice-1, city)
	if err != nil {
		h.renderError(err, city)
		return
	}

	fmt.Fprintf(h.out, "Removed '%s' from favourites.\n", replaced.Name)
	fmt.Fprintf(h.out, "Added '%s' to favourites.\n\n", added.Name)
}

// promptCityName asks for a city. An empty answer means the user cancelled;
// ok is false only when input is exhausted.
func (h *Handler) promptCityName() (string, bool) {
	return h.readLine("Enter city name (or press Enter to cancel): ")
}

func (h *Handler) readLine(prompt string) (string, bool) {
	fmt.Fprint(h.out, prompt)
	if !h.scanner.Scan() {
		fmt.Fprintln(h.out)
		return "", false
	}
	return strings.TrimSpace(h.scanner.Text()), true
}

func (h *Handler) printWeather(data models.WeatherData) {
	location := data.City.String()

	fmt.Fprintf(h.out, "\nWeather for %s:\n", location)
	fmt.Fprintln(h.out, strings.Repeat("-", utf8.RuneCountInString(location)+12))
	fmt.Fprintf(h.out, "  Description : %s\n", h.titler.String(data.Current.Description))
	fmt.Fprintf(h.out, "  Temperature : %.1f °C\n", data.Current.Temperature)
	fmt.Fprintf(h.out, "  Feels like  : %.1f °C\n", data.Current.FeelsLike)
	fmt.Fprintf(h.out, "  Humidity    : %d%%\n", data.Current.Humidity)
	fmt.Fprintf(h.out, "  Wind speed  : %.1f m/s\n", data.Current.WindSpeed)
	fmt.Fprintln(h.out)
}

func (h *Handler) renderError(err error, city string) {
	h.logger.Error().Err(err).Str("city", city).Msg("operation failed")

	switch {
	case errors.Is(err, weather.ErrCityNotFound):
		fmt.Fprintf(h.out, "Error: City '%s' not found.\n\n", city)
	case errors.Is(err, favourites.ErrDuplicateCity):
		fmt.Fprintf(h.out, "'%s' is already in your favourites.\n\n", city)
	case errors.Is(err, favourites.ErrFavouritesFull):
		fmt.Fprintf(h.out, "You already have %d favourite cities. "+
			"Use 'Update Favourite Cities' to change them.\n\n", favourites.MaxFavourites)
	case errors.Is(err, favourites.ErrIndexOutOfRange):
		fmt.Fprintf(h.out, "Choice out of range.\n\n")
	case errors.Is(err, weather.ErrProviderUnavailable):
		fmt.Fprintf(h.out, "Error: Weather service is unavailable right now. Please try again later.\n\n")
	default:
		fmt.Fprintf(h.out, "Error: %v\n\n", err)
	}
}
