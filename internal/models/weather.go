package models

// City is a place as resolved by the weather provider.
type City struct {
	Name    string
	Country string
}

func (c City) String() string {
	if c.Country == "" {
		return c.Name
	}
	return c.Name + ", " + c.Country
}

// WeatherRecord holds current conditions for a city. Records are fetched
// fresh on every display and never cached.
type WeatherRecord struct {
	Description string
	Temperature float64
	FeelsLike   float64
	Humidity    int
	WindSpeed   float64
}

// WeatherData is what a provider fetch returns: the resolved city plus
// its current conditions.
type WeatherData struct {
	City    City
	Current WeatherRecord
}
