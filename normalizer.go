package main

import (
	"errors"
	"log/slog"
	"time"
)

// The normalizer merges partial records from prioritized sources into one
// SurfConditions row. Priority is positional: earlier sources win every field
// they supply.

// ErrInsufficientData means no source supplied a required field this cycle.
// The caller must leave the previous row intact.
var ErrInsufficientData = errors.New("no source supplied wave height and wind speed")

// mergePartial fills the nil fields of dst from src; fields dst already has
// keep their higher-priority value.
func mergePartial(dst, src PartialConditions) PartialConditions {
	if dst.WaveHeightM == nil {
		dst.WaveHeightM = src.WaveHeightM
	}
	if dst.WavePeriodS == nil {
		dst.WavePeriodS = src.WavePeriodS
	}
	if dst.WindSpeedMps == nil {
		dst.WindSpeedMps = src.WindSpeedMps
	}
	if dst.WindDirectionDeg == nil {
		dst.WindDirectionDeg = src.WindDirectionDeg
	}
	return dst
}

func (p PartialConditions) hasWave() bool {
	return p.WaveHeightM != nil
}

func (p PartialConditions) hasWind() bool {
	return p.WindSpeedMps != nil
}

// mergeConditions reduces an ordered list of adapter results to one merged
// partial, then finalizes it. Kept as the single entry point for tests.
func mergeConditions(results []PartialConditions, location string, now time.Time, logger *slog.Logger) (SurfConditions, error) {
	merged := PartialConditions{}
	for _, r := range results {
		merged = mergePartial(merged, r)
	}
	return finalizeConditions(merged, location, now, logger)
}

// finalizeConditions validates the merged record. Wave height and wind speed
// are required; wind direction is required only when the wind is non-zero and
// defaults to 0 otherwise. The row timestamp is the scheduler's UTC now, never
// an upstream timestamp.
func finalizeConditions(merged PartialConditions, location string, now time.Time, logger *slog.Logger) (SurfConditions, error) {
	if !merged.hasWave() || !merged.hasWind() {
		return SurfConditions{}, ErrInsufficientData
	}

	conditions := SurfConditions{
		Location:     location,
		WaveHeightM:  *merged.WaveHeightM,
		WindSpeedMps: *merged.WindSpeedMps,
		LastUpdated:  now.UTC(),
	}
	if merged.WavePeriodS != nil {
		conditions.WavePeriodS = *merged.WavePeriodS
	}
	if merged.WindDirectionDeg != nil {
		conditions.WindDirectionDeg = foldDirection(float64(*merged.WindDirectionDeg))
	} else if conditions.WindSpeedMps > 0 {
		logger.Warn("no source supplied wind direction for non-zero wind, defaulting to 0",
			"location", location, "wind_speed_mps", conditions.WindSpeedMps)
	}
	return conditions, nil
}
