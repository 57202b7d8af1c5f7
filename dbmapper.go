package main

import (
	"database/sql"
	"time"

	"github.com/surflamp/surflamp/internal/database"
)

// databaseConditionsToSurfConditions converts a database.LocationCondition to a SurfConditions.
func databaseConditionsToSurfConditions(dbConditions database.LocationCondition) SurfConditions {
	return SurfConditions{
		Location:         dbConditions.Location,
		WaveHeightM:      dbConditions.WaveHeightM,
		WavePeriodS:      dbConditions.WavePeriodS,
		WindSpeedMps:     dbConditions.WindSpeedMps,
		WindDirectionDeg: int(dbConditions.WindDirectionDeg),
		LastUpdated:      dbConditions.LastUpdated,
	}
}

// surfConditionsToUpsertParams converts a SurfConditions to database.UpsertLocationConditionsParams.
func surfConditionsToUpsertParams(conditions SurfConditions) database.UpsertLocationConditionsParams {
	return database.UpsertLocationConditionsParams{
		Location:         conditions.Location,
		WaveHeightM:      conditions.WaveHeightM,
		WavePeriodS:      conditions.WavePeriodS,
		WindSpeedMps:     conditions.WindSpeedMps,
		WindDirectionDeg: int32(conditions.WindDirectionDeg),
		LastUpdated:      conditions.LastUpdated,
	}
}

// databaseDeviceViewToDeviceView converts a joined database.GetDeviceViewRow
// into the domain Device and User pair.
func databaseDeviceViewToDeviceView(row database.GetDeviceViewRow) (Device, User) {
	device := Device{
		DeviceID:     row.DeviceID,
		UserID:       row.UserID,
		Location:     row.Location,
		LastPollTime: row.LastPollTime.Time,
	}
	user := User{
		UserID:                row.UserID,
		Theme:                 row.Theme.String,
		WaveThresholdM:        nullFloatToPtr(row.WaveThresholdM),
		WaveThresholdMaxM:     nullFloatToPtr(row.WaveThresholdMaxM),
		WindThresholdKnots:    nullFloatToPtr(row.WindThresholdKnots),
		WindThresholdMaxKnots: nullFloatToPtr(row.WindThresholdMaxKnots),
		BrightnessLevel:       nullFloatToPtr(row.BrightnessLevel),
		OffHoursEnabled:       row.OffHoursEnabled,
		OffHoursStart:         row.OffHoursStart.String,
		OffHoursEnd:           row.OffHoursEnd.String,
		QuietHoursEnabled:     row.QuietHoursEnabled,
		QuietHoursStart:       row.QuietHoursStart.String,
		QuietHoursEnd:         row.QuietHoursEnd.String,
	}
	return device, user
}

func nullFloatToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timeToNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
