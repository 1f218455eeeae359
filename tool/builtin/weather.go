package builtin

import (
	"context"
	"strings"

	"github.com/spetersoncode/parley/tool"
)

// WeatherToolName is the name the weather tool registers under.
const WeatherToolName = "get_current_weather"

// UnknownTemperature is reported for locations without data.
const UnknownTemperature = -1

// SampleWeatherQueries are example questions for the weather command.
var SampleWeatherQueries = []string{
	"大连的天气怎样",
	"上海现在天气如何",
	"深圳今天天气怎么样",
}

// WeatherArgs are the arguments of get_current_weather.
type WeatherArgs struct {
	Location string `json:"location" jsonschema:"description=City name\\, e.g.: Dalian\\, Shanghai\\, Shenzhen"`
	Unit     string `json:"unit,omitempty" jsonschema:"description=Temperature unit,enum=celsius,enum=fahrenheit"`
}

// WeatherReport is the result of get_current_weather.
type WeatherReport struct {
	Location    string   `json:"location"`
	Temperature int      `json:"temperature"`
	Unit        string   `json:"unit"`
	Forecast    []string `json:"forecast"`
}

var cityTemperatures = []struct {
	names []string
	temp  int
	exact bool
}{
	{names: []string{"大连", "Dalian"}, temp: 10},
	{names: []string{"上海", "Shanghai"}, temp: 36, exact: true},
	{names: []string{"深圳", "Shenzhen"}, temp: 37, exact: true},
}

// Weather returns canned weather for a few cities.
// Dalian matches anywhere in the location; Shanghai and Shenzhen must match exactly.
func Weather(args WeatherArgs) WeatherReport {
	unit := args.Unit
	if unit == "" {
		unit = "celsius"
	}

	temp := UnknownTemperature
	for _, city := range cityTemperatures {
		for _, name := range city.names {
			if (city.exact && strings.EqualFold(args.Location, name)) ||
				(!city.exact && strings.Contains(args.Location, name)) {
				temp = city.temp
			}
		}
	}

	return WeatherReport{
		Location:    args.Location,
		Temperature: temp,
		Unit:        unit,
		Forecast:    []string{"Sunny", "Light breeze"},
	}
}

// WeatherTool returns the get_current_weather registration.
func WeatherTool() tool.Registration {
	return tool.Func(WeatherToolName, "Get current weather information for specified location",
		func(ctx context.Context, args WeatherArgs) (any, error) {
			return Weather(args), nil
		})
}

// Registry returns a registry holding every builtin tool.
func Registry(src StatusSource) *tool.Registry {
	return tool.NewRegistry().Add(StatusTool(src), WeatherTool())
}
