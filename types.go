package main

import (
	"time"

	"github.com/google/uuid"
)

// RegistryEntry describes one surf spot and the ordered upstream URLs that feed
// it. The first URL of each list is the primary source; the rest are fallbacks.
type RegistryEntry struct {
	Name      string
	WaveURLs  []string
	WindURLs  []string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// SurfConditions is the one normalized record the scheduler writes per
// location and per cycle.
type SurfConditions struct {
	Location         string    `json:"location"`
	WaveHeightM      float64   `json:"wave_height_m"`
	WavePeriodS      float64   `json:"wave_period_s"`
	WindSpeedMps     float64   `json:"wind_speed_mps"`
	WindDirectionDeg int       `json:"wind_direction_deg"`
	LastUpdated      time.Time `json:"last_updated"`
}

// PartialConditions is what a single adapter extracts from one upstream
// response. Nil fields were not supplied by that source.
type PartialConditions struct {
	WaveHeightM      *float64
	WavePeriodS      *float64
	WindSpeedMps     *float64
	WindDirectionDeg *int
}

type Device struct {
	DeviceID     int64
	UserID       uuid.UUID
	Location     string
	LastPollTime time.Time
}

// User holds the externally-owned preference fields the core reads. Pointer
// fields are unset when the user never configured them.
type User struct {
	UserID                uuid.UUID
	Theme                 string
	WaveThresholdM        *float64
	WaveThresholdMaxM     *float64
	WindThresholdKnots    *float64
	WindThresholdMaxKnots *float64
	BrightnessLevel       *float64
	OffHoursEnabled       bool
	OffHoursStart         string
	OffHoursEnd           string
	QuietHoursEnabled     bool
	QuietHoursStart       string
	QuietHoursEnd         string
}

// DeviceView is the joined device/user/location binding the read API resolves
// per request. Conditions are read separately through the cache layer.
type DeviceView struct {
	Device Device
	User   User
	Entry  RegistryEntry
}

// ArduinoEnvelope is the legacy response shape for GET /api/arduino/{id}/data.
// Field names and types are a fixed firmware contract.
type ArduinoEnvelope struct {
	WaveHeightCm            int     `json:"wave_height_cm"`
	WavePeriodS             float64 `json:"wave_period_s"`
	WindSpeedMps            int     `json:"wind_speed_mps"`
	WindDirectionDeg        int     `json:"wind_direction_deg"`
	WaveThresholdCm         int     `json:"wave_threshold_cm"`
	WindSpeedThresholdKnots int     `json:"wind_speed_threshold_knots"`
	QuietHoursActive        bool    `json:"quiet_hours_active"`
	OffHoursActive          bool    `json:"off_hours_active"`
	BrightnessMultiplier    float64 `json:"brightness_multiplier"`
	LedTheme                string  `json:"led_theme"`
	LastUpdated             string  `json:"last_updated"`
	DataAvailable           bool    `json:"data_available"`
	SunsetAnimation         bool    `json:"sunset_animation"`
	DayOfYear               int     `json:"day_of_year"`
}

// ArduinoEnvelopeV2 is the v2 response shape: it drops the legacy
// sunset_animation/day_of_year flags and adds location metadata.
type ArduinoEnvelopeV2 struct {
	WaveHeightCm            int     `json:"wave_height_cm"`
	WavePeriodS             float64 `json:"wave_period_s"`
	WindSpeedMps            int     `json:"wind_speed_mps"`
	WindDirectionDeg        int     `json:"wind_direction_deg"`
	WaveThresholdCm         int     `json:"wave_threshold_cm"`
	WindSpeedThresholdKnots int     `json:"wind_speed_threshold_knots"`
	QuietHoursActive        bool    `json:"quiet_hours_active"`
	OffHoursActive          bool    `json:"off_hours_active"`
	BrightnessMultiplier    float64 `json:"brightness_multiplier"`
	LedTheme                string  `json:"led_theme"`
	LastUpdated             string  `json:"last_updated"`
	DataAvailable           bool    `json:"data_available"`
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	TzOffset                int     `json:"tz_offset"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ConfigResponse struct {
	DevMode              bool   `json:"dev_mode"`
	CycleInterval        string `json:"cycle_interval"`
	MaxConcurrentFetches int    `json:"max_concurrent_fetches"`
}
