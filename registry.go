package main

import (
	"fmt"
)

// The registry is the compiled source of truth for surf spots. Entries are
// added only by code change and deploy; nothing at runtime may create one.

// Registry maps normalized location names to their compiled entries.
type Registry struct {
	entries map[string]RegistryEntry
}

// NewRegistry builds a registry from compiled entries. Entries whose names
// cannot be normalized are dropped.
func NewRegistry(entries []RegistryEntry) *Registry {
	r := &Registry{entries: make(map[string]RegistryEntry, len(entries))}
	for _, entry := range entries {
		key, err := normalizeLocationName(entry.Name)
		if err != nil {
			continue
		}
		r.entries[key] = entry
	}
	return r
}

// Lookup resolves a location name (in any capitalization or diacritic form)
// to its registry entry.
func (r *Registry) Lookup(name string) (RegistryEntry, bool) {
	key, err := normalizeLocationName(name)
	if err != nil {
		return RegistryEntry{}, false
	}
	entry, ok := r.entries[key]
	return entry, ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// ActiveLocations intersects the registry with the set of location names
// currently referenced by at least one device. Names that don't resolve to a
// registry entry are returned separately so the caller can log them.
func (r *Registry) ActiveLocations(inUse []string) ([]RegistryEntry, []string) {
	seen := make(map[string]bool, len(inUse))
	var active []RegistryEntry
	var unknown []string
	for _, name := range inUse {
		key, err := normalizeLocationName(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		entry, ok := r.entries[key]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		active = append(active, entry)
	}
	return active, unknown
}

func wrapMarineURL(lat, lon float64) string {
	return fmt.Sprintf("https://marine-api.open-meteo.com/v1/marine?latitude=%.4f&longitude=%.4f&hourly=wave_height,wave_period,wave_direction&timezone=UTC", lat, lon)
}

// wrapForecastWindURL requests wind in m/s explicitly; Open-Meteo defaults to km/h.
func wrapForecastWindURL(lat, lon float64) string {
	return fmt.Sprintf("https://api.open-meteo.com/v1/forecast?latitude=%.4f&longitude=%.4f&hourly=wind_speed_10m,wind_direction_10m&wind_speed_unit=ms&timezone=UTC", lat, lon)
}

func wrapOWMURL(lat, lon float64, key string) string {
	return fmt.Sprintf("https://api.openweathermap.org/data/2.5/weather?lat=%.4f&lon=%.4f&units=metric&appid=%s", lat, lon, key)
}

const isramarHaderaURL = "https://isramar.ocean.org.il/isramar2009/station/data/Hadera_Hs_Per.json"

// defaultRegistry compiles the production surf spot table. OpenWeatherMap URLs
// are appended as wind fallbacks only when an API key is configured.
func defaultRegistry(owmKey string) *Registry {
	type spot struct {
		name     string
		lat, lon float64
		waveAux  []string
	}
	spots := []spot{
		{name: "Hadera, Israel", lat: 32.4365, lon: 34.9196, waveAux: []string{isramarHaderaURL}},
		{name: "Tel Aviv, Israel", lat: 32.0853, lon: 34.7818},
		{name: "Netanya, Israel", lat: 32.3215, lon: 34.8532},
		{name: "Haifa, Israel", lat: 32.7940, lon: 34.9896},
		{name: "Ashdod, Israel", lat: 31.8014, lon: 34.6435},
	}

	entries := make([]RegistryEntry, 0, len(spots))
	for _, s := range spots {
		waveURLs := append([]string{wrapMarineURL(s.lat, s.lon)}, s.waveAux...)
		windURLs := []string{wrapForecastWindURL(s.lat, s.lon)}
		if owmKey != "" {
			windURLs = append(windURLs, wrapOWMURL(s.lat, s.lon, owmKey))
		}
		entries = append(entries, RegistryEntry{
			Name:      s.name,
			WaveURLs:  waveURLs,
			WindURLs:  windURLs,
			Latitude:  s.lat,
			Longitude: s.lon,
			Timezone:  "Asia/Jerusalem",
		})
	}
	return NewRegistry(entries)
}
