package main

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surflamp/surflamp/internal/database"
)

func TestDatabaseConditionsToSurfConditions(t *testing.T) {
	got := databaseConditionsToSurfConditions(mockDBConditions)

	assert.Equal(t, "Hadera, Israel", got.Location)
	assert.Equal(t, 1.25, got.WaveHeightM)
	assert.Equal(t, 6.48, got.WavePeriodS)
	assert.Equal(t, 4.57, got.WindSpeedMps)
	assert.Equal(t, 290, got.WindDirectionDeg)
	assert.True(t, got.LastUpdated.Equal(mockDBConditions.LastUpdated))
}

func TestSurfConditionsToUpsertParams(t *testing.T) {
	conditions := SurfConditions{
		Location:         "Hadera, Israel",
		WaveHeightM:      1.25,
		WavePeriodS:      6.48,
		WindSpeedMps:     4.57,
		WindDirectionDeg: 290,
		LastUpdated:      time.Date(2025, 6, 10, 6, 30, 0, 0, time.UTC),
	}

	params := surfConditionsToUpsertParams(conditions)

	assert.Equal(t, conditions.Location, params.Location)
	assert.Equal(t, conditions.WaveHeightM, params.WaveHeightM)
	assert.Equal(t, conditions.WavePeriodS, params.WavePeriodS)
	assert.Equal(t, conditions.WindSpeedMps, params.WindSpeedMps)
	assert.Equal(t, int32(290), params.WindDirectionDeg)
	assert.True(t, params.LastUpdated.Equal(conditions.LastUpdated))
}

func TestDatabaseDeviceViewToDeviceView(t *testing.T) {
	row := mockDeviceViewRow()
	row.LastPollTime = sql.NullTime{Time: time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC), Valid: true}
	row.OffHoursEnabled = true
	row.OffHoursStart = sql.NullString{String: "23:00", Valid: true}
	row.OffHoursEnd = sql.NullString{String: "06:00", Valid: true}

	device, user := databaseDeviceViewToDeviceView(row)

	assert.Equal(t, row.DeviceID, device.DeviceID)
	assert.Equal(t, row.UserID, device.UserID)
	assert.Equal(t, "Hadera, Israel", device.Location)
	assert.True(t, device.LastPollTime.Equal(row.LastPollTime.Time))

	assert.Equal(t, row.UserID, user.UserID)
	assert.Equal(t, "dark", user.Theme)
	require.NotNil(t, user.WaveThresholdM)
	assert.Equal(t, 0.5, *user.WaveThresholdM)
	require.NotNil(t, user.WindThresholdKnots)
	assert.Equal(t, 12.0, *user.WindThresholdKnots)
	require.NotNil(t, user.BrightnessLevel)
	assert.Equal(t, 0.8, *user.BrightnessLevel)
	assert.True(t, user.OffHoursEnabled)
	assert.Equal(t, "23:00", user.OffHoursStart)
	assert.Equal(t, "06:00", user.OffHoursEnd)
}

func TestDatabaseDeviceViewToDeviceView_NullPreferences(t *testing.T) {
	row := database.GetDeviceViewRow{
		DeviceID: 4433,
		UserID:   mockUserID,
		Location: "Hadera, Israel",
	}

	_, user := databaseDeviceViewToDeviceView(row)

	assert.Nil(t, user.WaveThresholdM)
	assert.Nil(t, user.WaveThresholdMaxM)
	assert.Nil(t, user.WindThresholdKnots)
	assert.Nil(t, user.WindThresholdMaxKnots)
	assert.Nil(t, user.BrightnessLevel)
	assert.Empty(t, user.Theme)
	assert.False(t, user.OffHoursEnabled)
	assert.False(t, user.QuietHoursEnabled)
}

func TestNullFloatToPtr(t *testing.T) {
	assert.Nil(t, nullFloatToPtr(sql.NullFloat64{}))

	ptr := nullFloatToPtr(sql.NullFloat64{Float64: 0.75, Valid: true})
	require.NotNil(t, ptr)
	assert.Equal(t, 0.75, *ptr)
}

func TestTimeToNullTime(t *testing.T) {
	assert.False(t, timeToNullTime(time.Time{}).Valid)

	nt := timeToNullTime(time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC))
	assert.True(t, nt.Valid)
}
