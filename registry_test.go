package main

import (
	"strings"
	"testing"
)

func testRegistryEntries() []RegistryEntry {
	return []RegistryEntry{
		{Name: "Hadera, Israel", WaveURLs: []string{"http://wave"}, WindURLs: []string{"http://wind"}},
		{Name: "Tel Aviv, Israel"},
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(testRegistryEntries())

	testCases := []struct {
		name   string
		lookup string
		wantOk bool
	}{
		{"Exact Name", "Hadera, Israel", true},
		{"Lowercase", "hadera, israel", true},
		{"Surrounding Whitespace", "  Hadera, Israel  ", true},
		{"Diacritics Stripped", "Hadéra, Israel", true},
		{"Unknown Location", "Atlantis", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := r.Lookup(tc.lookup)
			if ok != tc.wantOk {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tc.lookup, ok, tc.wantOk)
			}
			if ok && entry.Name != "Hadera, Israel" {
				t.Errorf("expected the Hadera entry, got %q", entry.Name)
			}
		})
	}
}

func TestRegistryActiveLocations(t *testing.T) {
	r := NewRegistry(testRegistryEntries())

	inUse := []string{"hadera, israel", "Hadera, Israel", "Atlantis", "TEL AVIV, ISRAEL"}
	active, unknown := r.ActiveLocations(inUse)

	if len(active) != 2 {
		t.Fatalf("expected 2 active entries (duplicates collapsed), got %d", len(active))
	}
	if active[0].Name != "Hadera, Israel" || active[1].Name != "Tel Aviv, Israel" {
		t.Errorf("unexpected active entries: %+v", active)
	}
	if len(unknown) != 1 || unknown[0] != "Atlantis" {
		t.Errorf("expected Atlantis to be reported unknown, got %v", unknown)
	}
}

func TestRegistryLen(t *testing.T) {
	if got := NewRegistry(nil).Len(); got != 0 {
		t.Errorf("empty registry Len() = %d, want 0", got)
	}
	if got := NewRegistry(testRegistryEntries()).Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := defaultRegistry("")
	if r.Len() == 0 {
		t.Fatal("default registry must not be empty")
	}

	entry, ok := r.Lookup("Hadera, Israel")
	if !ok {
		t.Fatal("expected Hadera in the default registry")
	}
	if len(entry.WaveURLs) < 2 {
		t.Errorf("expected Hadera to carry a regional wave fallback, got %v", entry.WaveURLs)
	}
	if !strings.Contains(entry.WaveURLs[0], "marine-api.open-meteo.com") {
		t.Errorf("primary wave source should be the marine API, got %q", entry.WaveURLs[0])
	}
	if !strings.Contains(entry.WaveURLs[1], "isramar.ocean.org.il") {
		t.Errorf("wave fallback should be the Isramar station, got %q", entry.WaveURLs[1])
	}
	if len(entry.WindURLs) != 1 {
		t.Errorf("without an OWM key there must be exactly one wind source, got %v", entry.WindURLs)
	}
	// Open-Meteo defaults to km/h; the request must pin m/s.
	if !strings.Contains(entry.WindURLs[0], "wind_speed_unit=ms") {
		t.Errorf("wind URL must request m/s, got %q", entry.WindURLs[0])
	}
	if entry.Timezone != "Asia/Jerusalem" {
		t.Errorf("expected Asia/Jerusalem, got %q", entry.Timezone)
	}
}

func TestDefaultRegistry_OWMKeyAddsWindFallback(t *testing.T) {
	r := defaultRegistry("test-key")

	entry, ok := r.Lookup("Hadera, Israel")
	if !ok {
		t.Fatal("expected Hadera in the default registry")
	}
	if len(entry.WindURLs) != 2 {
		t.Fatalf("expected a wind fallback with an OWM key, got %v", entry.WindURLs)
	}
	if !strings.Contains(entry.WindURLs[1], "api.openweathermap.org") || !strings.Contains(entry.WindURLs[1], "appid=test-key") {
		t.Errorf("unexpected OWM fallback URL: %q", entry.WindURLs[1])
	}
}
