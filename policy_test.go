package main

import (
	"testing"
	"time"
)

func TestEffectiveWaveThresholdCm(t *testing.T) {
	testCases := []struct {
		name     string
		currentM float64
		minM     *float64
		maxM     *float64
		want     int
	}{
		{
			name:     "No Threshold Set",
			currentM: 1.5,
			want:     neverAlertThreshold,
		},
		{
			name:     "Minimum Only Passes Through",
			currentM: 1.5,
			minM:     floatPtr(0.5),
			want:     50,
		},
		{
			name:     "Within Range",
			currentM: 1.5,
			minM:     floatPtr(0.5),
			maxM:     floatPtr(2.0),
			want:     50,
		},
		{
			name:     "Above Maximum Disables Alert",
			currentM: 2.5,
			minM:     floatPtr(0.5),
			maxM:     floatPtr(2.0),
			want:     neverAlertThreshold,
		},
		{
			name:     "Exactly At Maximum Still Alerts",
			currentM: 2.0,
			minM:     floatPtr(0.5),
			maxM:     floatPtr(2.0),
			want:     50,
		},
		{
			name:     "Fractional Minimum Rounds",
			currentM: 1.0,
			minM:     floatPtr(0.755),
			want:     76,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := effectiveWaveThresholdCm(tc.currentM, tc.minM, tc.maxM); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEffectiveWindThresholdKnots(t *testing.T) {
	testCases := []struct {
		name       string
		currentMps float64
		minKnots   *float64
		maxKnots   *float64
		want       int
	}{
		{
			name:       "No Threshold Set",
			currentMps: 10,
			want:       neverAlertThreshold,
		},
		{
			name:       "Minimum Only",
			currentMps: 10,
			minKnots:   floatPtr(12),
			want:       12,
		},
		{
			// 10 m/s is 19.44 knots, above the 15-knot ceiling.
			name:       "Current Above Maximum Disables Alert",
			currentMps: 10,
			minKnots:   floatPtr(5),
			maxKnots:   floatPtr(15),
			want:       neverAlertThreshold,
		},
		{
			// 7 m/s is 13.61 knots, inside the range.
			name:       "Current Within Range",
			currentMps: 7,
			minKnots:   floatPtr(5),
			maxKnots:   floatPtr(15),
			want:       5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := effectiveWindThresholdKnots(tc.currentMps, tc.minKnots, tc.maxKnots); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWindowActive(t *testing.T) {
	at := func(hour, min int) time.Time {
		return time.Date(2025, 6, 10, hour, min, 0, 0, time.UTC)
	}

	testCases := []struct {
		name  string
		now   time.Time
		start string
		end   string
		want  bool
	}{
		{"Inside Daytime Window", at(12, 0), "09:00", "17:00", true},
		{"Before Daytime Window", at(8, 59), "09:00", "17:00", false},
		{"At Start Inclusive", at(9, 0), "09:00", "17:00", true},
		{"At End Exclusive", at(17, 0), "09:00", "17:00", false},
		{"Overnight Window Before Midnight", at(23, 30), "22:00", "07:00", true},
		{"Overnight Window After Midnight", at(3, 0), "22:00", "07:00", true},
		{"Overnight Window Daytime Gap", at(12, 0), "22:00", "07:00", false},
		{"Overnight End Exclusive", at(7, 0), "22:00", "07:00", false},
		{"Zero Length Window", at(10, 0), "10:00", "10:00", false},
		{"Malformed Start", at(10, 0), "bogus", "17:00", false},
		{"Malformed End", at(10, 0), "09:00", "25:00", false},
		{"Empty Strings", at(10, 0), "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := windowActive(tc.now, tc.start, tc.end); got != tc.want {
				t.Errorf("windowActive(%v, %q, %q) = %v, want %v", tc.now.Format("15:04"), tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestOffAndQuietHoursAreIndependent(t *testing.T) {
	// 23:00 local: inside both the off-hours and quiet-hours windows.
	now := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	user := User{
		OffHoursEnabled:   true,
		OffHoursStart:     "22:00",
		OffHoursEnd:       "06:00",
		QuietHoursEnabled: true,
		QuietHoursStart:   "21:00",
		QuietHoursEnd:     "07:00",
	}

	if !offHoursActive(now, user) {
		t.Error("expected off-hours to be active")
	}
	if !quietHoursActive(now, user) {
		t.Error("expected quiet-hours to be active")
	}

	disabled := user
	disabled.OffHoursEnabled = false
	disabled.QuietHoursEnabled = false
	if offHoursActive(now, disabled) || quietHoursActive(now, disabled) {
		t.Error("disabled windows must never be active")
	}
}

func TestParseClock(t *testing.T) {
	testCases := []struct {
		in     string
		want   int
		wantOk bool
	}{
		{"00:00", 0, true},
		{"23:59", 23*60 + 59, true},
		{"07:30", 7*60 + 30, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"7:30", 0, false},
		{"07-30", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		got, ok := parseClock(tc.in)
		if ok != tc.wantOk || got != tc.want {
			t.Errorf("parseClock(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.wantOk)
		}
	}
}

func TestBrightnessMultiplier(t *testing.T) {
	testCases := []struct {
		name  string
		level *float64
		want  float64
	}{
		{"Unset Defaults", nil, defaultBrightness},
		{"Within Range", floatPtr(0.8), 0.8},
		{"Clamped Low", floatPtr(-0.5), 0.0},
		{"Clamped High", floatPtr(1.7), 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := brightnessMultiplier(User{BrightnessLevel: tc.level}); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTimezoneOffsetHours(t *testing.T) {
	winter := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	summer := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	if got := timezoneOffsetHours("Asia/Jerusalem", winter); got != 2 {
		t.Errorf("expected winter offset 2, got %d", got)
	}
	if got := timezoneOffsetHours("Asia/Jerusalem", summer); got != 3 {
		t.Errorf("expected summer (DST) offset 3, got %d", got)
	}
	if got := timezoneOffsetHours("Not/AZone", summer); got != 0 {
		t.Errorf("expected unknown zone to fall back to 0, got %d", got)
	}
}

func TestLocalTime(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	local := localTime("Asia/Jerusalem", now)
	if local.Hour() != 15 {
		t.Errorf("expected 15:00 local in summer, got %02d:%02d", local.Hour(), local.Minute())
	}

	fallback := localTime("Not/AZone", now)
	if fallback.Location() != time.UTC {
		t.Errorf("expected UTC fallback, got %v", fallback.Location())
	}
}
