package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/surflamp/surflamp/internal/database"
)

// ErrDeviceNotFound is returned when the device/user/location join is empty.
var ErrDeviceNotFound = errors.New("device not found")

const defaultLedTheme = "classic"

func conditionsCacheKey(location string) string {
	key, err := normalizeLocationName(location)
	if err != nil {
		key = location
	}
	return "conditions:" + key
}

// readDeviceView resolves the device → user → location binding in a single
// query. Any empty join, including a device row whose location is missing from
// the registry, yields ErrDeviceNotFound.
func (cfg *apiConfig) readDeviceView(ctx context.Context, deviceID int64) (DeviceView, error) {
	row, err := cfg.dbQueries.GetDeviceView(ctx, deviceID)
	if err == sql.ErrNoRows {
		return DeviceView{}, ErrDeviceNotFound
	}
	if err != nil {
		return DeviceView{}, fmt.Errorf("database error when resolving device view: %w", err)
	}

	device, user := databaseDeviceViewToDeviceView(row)
	entry, ok := cfg.registry.Lookup(device.Location)
	if !ok {
		cfg.logger.Warn("device bound to location missing from registry", "device_id", deviceID, "location", device.Location)
		return DeviceView{}, ErrDeviceNotFound
	}

	return DeviceView{Device: device, User: user, Entry: entry}, nil
}

// getCachedOrFetchConditions reads the location's conditions through the cache
// layer: Redis first, then the database. The second return value reports
// whether a committed row exists; devices at a location with no row yet run in
// their safe fallback mode.
func (cfg *apiConfig) getCachedOrFetchConditions(ctx context.Context, location string) (SurfConditions, bool) {
	cacheKey := conditionsCacheKey(location)
	cachedData, err := cfg.cache.Get(ctx, cacheKey)
	if err == nil {
		var conditions SurfConditions
		if jsonErr := json.Unmarshal([]byte(cachedData), &conditions); jsonErr == nil {
			cfg.logger.Debug("cache hit", "key", cacheKey)
			return conditions, true
		} else {
			cfg.logger.Warn("error unmarshalling from cache", "key", cacheKey, "error", jsonErr)
		}
	} else if err != redis.Nil && err != errCacheMiss {
		cfg.logger.Warn("error getting from cache", "key", cacheKey, "error", err)
	}

	dbConditions, err := cfg.dbQueries.GetLocationConditions(ctx, location)
	if err == sql.ErrNoRows {
		return SurfConditions{}, false
	}
	if err != nil {
		cfg.logger.Error("database error when fetching conditions", "location", location, "error", err)
		return SurfConditions{}, false
	}

	conditions := databaseConditionsToSurfConditions(dbConditions)
	if cacheErr := cfg.cache.Set(ctx, cacheKey, conditions, cfg.cycleInterval); cacheErr != nil {
		cfg.logger.Warn("error setting to cache", "key", cacheKey, "error", cacheErr)
	}
	return conditions, true
}

// shapedPolicy carries the policy outputs shared by both envelope versions.
type shapedPolicy struct {
	waveThresholdCm    int
	windThresholdKnots int
	quietActive        bool
	offActive          bool
	brightness         float64
	theme              string
	lastUpdated        string
	nowLocal           time.Time
}

func shapePolicy(view DeviceView, conditions SurfConditions, available bool, now time.Time) shapedPolicy {
	nowLocal := localTime(view.Entry.Timezone, now)
	theme := view.User.Theme
	if theme == "" {
		theme = defaultLedTheme
	}
	lastUpdated := time.Unix(0, 0).UTC().Format(time.RFC3339)
	if available {
		lastUpdated = conditions.LastUpdated.UTC().Format(time.RFC3339)
	}
	return shapedPolicy{
		waveThresholdCm:    effectiveWaveThresholdCm(conditions.WaveHeightM, view.User.WaveThresholdM, view.User.WaveThresholdMaxM),
		windThresholdKnots: effectiveWindThresholdKnots(conditions.WindSpeedMps, view.User.WindThresholdKnots, view.User.WindThresholdMaxKnots),
		quietActive:        quietHoursActive(nowLocal, view.User),
		offActive:          offHoursActive(nowLocal, view.User),
		brightness:         brightnessMultiplier(view.User),
		theme:              theme,
		lastUpdated:        lastUpdated,
		nowLocal:           nowLocal,
	}
}

// composeEnvelope builds the legacy device envelope. Every field is emitted
// even when no data is available; the firmware depends on the full shape.
func composeEnvelope(view DeviceView, conditions SurfConditions, available bool, now time.Time) ArduinoEnvelope {
	p := shapePolicy(view, conditions, available, now)
	return ArduinoEnvelope{
		WaveHeightCm:            int(math.Round(conditions.WaveHeightM * 100)),
		WavePeriodS:             conditions.WavePeriodS,
		WindSpeedMps:            int(math.Round(conditions.WindSpeedMps)),
		WindDirectionDeg:        conditions.WindDirectionDeg,
		WaveThresholdCm:         p.waveThresholdCm,
		WindSpeedThresholdKnots: p.windThresholdKnots,
		QuietHoursActive:        p.quietActive,
		OffHoursActive:          p.offActive,
		BrightnessMultiplier:    p.brightness,
		LedTheme:                p.theme,
		LastUpdated:             p.lastUpdated,
		DataAvailable:           available,
		SunsetAnimation:         sunsetAnimationActive(p.nowLocal),
		DayOfYear:               p.nowLocal.YearDay(),
	}
}

// composeEnvelopeV2 builds the v2 envelope: no legacy sunset flags, plus
// location metadata and the current (DST-aware) UTC offset.
func composeEnvelopeV2(view DeviceView, conditions SurfConditions, available bool, now time.Time) ArduinoEnvelopeV2 {
	p := shapePolicy(view, conditions, available, now)
	return ArduinoEnvelopeV2{
		WaveHeightCm:            int(math.Round(conditions.WaveHeightM * 100)),
		WavePeriodS:             conditions.WavePeriodS,
		WindSpeedMps:            int(math.Round(conditions.WindSpeedMps)),
		WindDirectionDeg:        conditions.WindDirectionDeg,
		WaveThresholdCm:         p.waveThresholdCm,
		WindSpeedThresholdKnots: p.windThresholdKnots,
		QuietHoursActive:        p.quietActive,
		OffHoursActive:          p.offActive,
		BrightnessMultiplier:    p.brightness,
		LedTheme:                p.theme,
		LastUpdated:             p.lastUpdated,
		DataAvailable:           available,
		Latitude:                view.Entry.Latitude,
		Longitude:               view.Entry.Longitude,
		TzOffset:                timezoneOffsetHours(view.Entry.Timezone, now),
	}
}

// touchDeviceLastPoll records a successful delivery to a device. Best effort:
// a failed update never fails the response. Only the read path may touch this
// column; the scheduler must not, so "online" reflects true device polling.
func (cfg *apiConfig) touchDeviceLastPoll(ctx context.Context, deviceID int64, now time.Time) {
	// The response is already written by now; a device that hangs up right
	// after reading the body must not cancel its own heartbeat.
	ctx = context.WithoutCancel(ctx)
	err := cfg.dbQueries.UpdateDeviceLastPoll(ctx, database.UpdateDeviceLastPollParams{
		DeviceID:     deviceID,
		LastPollTime: timeToNullTime(now.UTC()),
	})
	if err != nil {
		cfg.logger.Warn("failed to update device last poll time", "device_id", deviceID, "error", err)
	}
}
