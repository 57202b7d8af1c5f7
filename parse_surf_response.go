package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"time"
)

// This file contains the provider adapters: each one translates a single
// upstream JSON shape into a PartialConditions record. Adapters tolerate
// missing optional fields; only undecodable bodies fail. All outputs are in
// normalized units (meters, seconds, m/s, degrees-from-north).

// adapterFunc turns one upstream body into a partial record. The wall clock is
// passed in so hourly-array adapters can select the current UTC hour slice.
type adapterFunc func(body io.Reader, now time.Time, logger *slog.Logger) (PartialConditions, error)

// adapterTable maps upstream hostnames to their adapter. Matching falls back
// to a substring scan over the whole URL so mirrored hosts (and test servers
// that keep the provider name in the path) still resolve.
var adapterTable = []struct {
	host string
	name string
	fn   adapterFunc
}{
	{host: "marine-api.open-meteo.com", name: "marine-hourly", fn: ParseMarineHourly},
	{host: "api.open-meteo.com", name: "weather-hourly", fn: ParseWeatherHourly},
	{host: "api.openweathermap.org", name: "owm-current", fn: ParseOWMCurrent},
	{host: "isramar.ocean.org.il", name: "regional-sample", fn: ParseRegionalSample},
}

// adapterForURL selects the adapter for an upstream URL by hostname.
func adapterForURL(rawURL string) (adapterFunc, string, error) {
	parsed, err := url.Parse(rawURL)
	if err == nil {
		for _, entry := range adapterTable {
			if parsed.Hostname() == entry.host {
				return entry.fn, entry.name, nil
			}
		}
	}
	for _, entry := range adapterTable {
		if strings.Contains(rawURL, entry.host) {
			return entry.fn, entry.name, nil
		}
	}
	return nil, "", &FetchError{Kind: FetchUnknownAdapter, Err: errUnknownAdapter(rawURL)}
}

type errUnknownAdapter string

func (e errUnknownAdapter) Error() string {
	return "no adapter registered for upstream URL: " + string(e)
}

func ParseMarineHourly(body io.Reader, now time.Time, logger *slog.Logger) (PartialConditions, error) {
	var response ResponseMarineHourly

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return PartialConditions{}, &FetchError{Kind: FetchDecodeError, Err: err}
	}

	idx := currentHourIndex(response.Hourly.Time, now, logger)
	partial := PartialConditions{}
	if v, ok := at(response.Hourly.WaveHeight, idx); ok {
		partial.WaveHeightM = floatPtr(round2(v))
	}
	if v, ok := at(response.Hourly.WavePeriod, idx); ok {
		partial.WavePeriodS = floatPtr(round2(v))
	}
	return partial, nil
}

func ParseWeatherHourly(body io.Reader, now time.Time, logger *slog.Logger) (PartialConditions, error) {
	var response ResponseWeatherHourly

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return PartialConditions{}, &FetchError{Kind: FetchDecodeError, Err: err}
	}

	idx := currentHourIndex(response.Hourly.Time, now, logger)
	partial := PartialConditions{}
	if v, ok := at(response.Hourly.WindSpeed10m, idx); ok {
		partial.WindSpeedMps = floatPtr(round2(v))
	}
	if v, ok := at(response.Hourly.WindDirection10m, idx); ok {
		partial.WindDirectionDeg = intPtr(foldDirection(v))
	}
	return partial, nil
}

// ParseOWMCurrent handles the OpenWeatherMap "current weather" shape. With
// units=metric the wind speed is already m/s.
func ParseOWMCurrent(body io.Reader, now time.Time, logger *slog.Logger) (PartialConditions, error) {
	var response ResponseOWMCurrent

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return PartialConditions{}, &FetchError{Kind: FetchDecodeError, Err: err}
	}

	partial := PartialConditions{}
	if response.Wind.Speed != nil {
		partial.WindSpeedMps = floatPtr(round2(*response.Wind.Speed))
	}
	if response.Wind.Deg != nil {
		partial.WindDirectionDeg = intPtr(foldDirection(*response.Wind.Deg))
	}
	return partial, nil
}

// ParseRegionalSample handles single-object current-sample feeds such as the
// Isramar coastal stations: one JSON document with scalar fields.
func ParseRegionalSample(body io.Reader, now time.Time, logger *slog.Logger) (PartialConditions, error) {
	var response ResponseRegionalSample

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return PartialConditions{}, &FetchError{Kind: FetchDecodeError, Err: err}
	}

	partial := PartialConditions{}
	if response.WaveHeight != nil {
		partial.WaveHeightM = floatPtr(round2(*response.WaveHeight))
	}
	if response.WavePeriod != nil {
		partial.WavePeriodS = floatPtr(round2(*response.WavePeriod))
	}
	if response.WindSpeed != nil {
		partial.WindSpeedMps = floatPtr(round2(*response.WindSpeed))
	}
	if response.WindDirection != nil {
		partial.WindDirectionDeg = intPtr(foldDirection(*response.WindDirection))
	}
	return partial, nil
}

type ResponseMarineHourly struct {
	Hourly struct {
		Time       []string  `json:"time"`
		WaveHeight []float64 `json:"wave_height"`
		WavePeriod []float64 `json:"wave_period"`
	} `json:"hourly"`
}

type ResponseWeatherHourly struct {
	Hourly struct {
		Time             []string  `json:"time"`
		WindSpeed10m     []float64 `json:"wind_speed_10m"`
		WindDirection10m []float64 `json:"wind_direction_10m"`
	} `json:"hourly"`
}

type ResponseOWMCurrent struct {
	Wind struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
}

type ResponseRegionalSample struct {
	WaveHeight    *float64 `json:"wave_height"`
	WavePeriod    *float64 `json:"wave_period"`
	WindSpeed     *float64 `json:"wind_speed"`
	WindDirection *float64 `json:"wind_direction"`
}

const hourlyTimeLayout = "2006-01-02T15:04"

// currentHourIndex finds the hourly array entry matching the current UTC hour.
// If no entry matches, index 0 is used with a warning.
func currentHourIndex(times []string, now time.Time, logger *slog.Logger) int {
	want := now.UTC().Truncate(time.Hour).Format(hourlyTimeLayout)
	for i, t := range times {
		if t == want {
			return i
		}
	}
	if logger != nil {
		logger.Warn("no hourly entry for current UTC hour, using first entry", "want", want)
	}
	return 0
}

func at(values []float64, idx int) (float64, bool) {
	if idx < 0 || idx >= len(values) {
		return 0, false
	}
	return values[idx], true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// foldDirection rounds to the nearest integer degree and folds the result
// into [0, 359] (360 becomes 0).
func foldDirection(deg float64) int {
	d := int(math.Round(deg)) % 360
	if d < 0 {
		d += 360
	}
	return d
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}
