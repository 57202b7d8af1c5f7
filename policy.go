package main

import (
	"math"
	"time"
)

// The policy engine is pure: no I/O, no clocks of its own. Inputs are the user
// record, the current local time in the device's zone, and the current
// conditions; outputs are the shaped values the envelope carries.

// neverAlertThreshold is the sentinel the firmware never reaches. The device's
// fixed rule is `current >= threshold`, so 9999 disables the alert blink
// without a firmware change. Protocol quirk, not a workaround; do not change.
const neverAlertThreshold = 9999

const mpsToKnots = 1.94384

const defaultBrightness = 0.6

// effectiveWaveThresholdCm implements the range-alert shim. With only a
// minimum set the threshold passes through; with a range set, conditions above
// the maximum return the sentinel so the alert stays off.
func effectiveWaveThresholdCm(currentM float64, minM, maxM *float64) int {
	if minM == nil {
		return neverAlertThreshold
	}
	if maxM != nil && currentM > *maxM {
		return neverAlertThreshold
	}
	return int(math.Round(*minM * 100))
}

// effectiveWindThresholdKnots is the wind analogue; current speed arrives in
// m/s and user thresholds are stored in knots.
func effectiveWindThresholdKnots(currentMps float64, minKnots, maxKnots *float64) int {
	if minKnots == nil {
		return neverAlertThreshold
	}
	currentKnots := currentMps * mpsToKnots
	if maxKnots != nil && currentKnots > *maxKnots {
		return neverAlertThreshold
	}
	return int(math.Round(*minKnots))
}

// offHoursActive reports whether local time falls inside the user's off-hours
// window. Off-hours and quiet-hours are independent; when both are active the
// device's own precedence turns it fully off.
func offHoursActive(nowLocal time.Time, user User) bool {
	if !user.OffHoursEnabled {
		return false
	}
	return windowActive(nowLocal, user.OffHoursStart, user.OffHoursEnd)
}

func quietHoursActive(nowLocal time.Time, user User) bool {
	if !user.QuietHoursEnabled {
		return false
	}
	return windowActive(nowLocal, user.QuietHoursStart, user.QuietHoursEnd)
}

// windowActive checks membership in the [start, end) window, supporting
// wrap-around across midnight. Malformed or zero-length windows are inactive.
func windowActive(nowLocal time.Time, start, end string) bool {
	startMin, okStart := parseClock(start)
	endMin, okEnd := parseClock(end)
	if !okStart || !okEnd || startMin == endMin {
		return false
	}
	nowMin := nowLocal.Hour()*60 + nowLocal.Minute()
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	return nowMin >= startMin || nowMin < endMin
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' ||
		s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// brightnessMultiplier clamps the user's brightness level to [0.0, 1.0],
// defaulting to 0.6 when unset.
func brightnessMultiplier(user User) float64 {
	if user.BrightnessLevel == nil {
		return defaultBrightness
	}
	return math.Min(1.0, math.Max(0.0, *user.BrightnessLevel))
}

// timezoneOffsetHours computes the device zone's current UTC offset in whole
// hours, so DST shifts flow to the device without a reflash. Unknown zones
// fall back to UTC.
func timezoneOffsetHours(tzName string, now time.Time) int {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return 0
	}
	_, offset := now.In(loc).Zone()
	return offset / 3600
}

// localTime shifts now into the device's zone, falling back to UTC when the
// zone is unknown.
func localTime(tzName string, now time.Time) time.Time {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return now.UTC()
	}
	return now.In(loc)
}

// sunsetAnimationActive drives the legacy envelope's sunset flag with a coarse
// seasonal approximation: sunset drifts sinusoidally around 17:30 local, and
// the flag holds for the half hour on either side. The v2 envelope dropped the
// flag; devices on v2 compute sunsets from lat/lon themselves.
func sunsetAnimationActive(nowLocal time.Time) bool {
	day := float64(nowLocal.YearDay())
	sunsetMin := 17*60 + 30 + 90*math.Sin(2*math.Pi*(day-80)/365)
	nowMin := float64(nowLocal.Hour()*60 + nowLocal.Minute())
	return math.Abs(nowMin-sunsetMin) <= 30
}
