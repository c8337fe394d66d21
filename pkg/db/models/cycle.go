package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// CycleRecord is the canonical per-cycle row: one physiological cycle joined
// with its recovery, its sleep and the workouts that started inside it.
//
// Pointer fields are nullable. A nil value means the source had no data,
// which is different from a measured zero.
type CycleRecord struct {
	bun.BaseModel `bun:"table:cycle_records,alias:cr"`

	ID             string     `bun:",pk"`
	Provider       string     `bun:",notnull"`
	UserID         string     `bun:",notnull"`
	CycleID        int64      `bun:",notnull"`
	Start          time.Time  `bun:"start,notnull"`
	End            *time.Time `bun:"end"`
	TimezoneOffset string     `bun:",notnull"`
	ScoreState     string     `bun:",notnull"`

	Strain           *float64 `bun:"strain"`
	Calories         *int64   `bun:"calories"`
	AverageHeartRate *int     `bun:"average_heart_rate"`
	MaxHeartRate     *int     `bun:"max_heart_rate"`

	RecoveryScore    *float64 `bun:"recovery_score"`
	RestingHeartRate *float64 `bun:"resting_heart_rate"`
	HRVRMSSDMilli    *float64 `bun:"hrv_rmssd_milli"`
	SpO2Percentage   *float64 `bun:"spo2_percentage"`
	SkinTempCelsius  *float64 `bun:"skin_temp_celsius"`
	UserCalibrating  *bool    `bun:"user_calibrating"`

	SleepID            *string    `bun:"sleep_id"`
	SleepStart         *time.Time `bun:"sleep_start"`
	SleepEnd           *time.Time `bun:"sleep_end"`
	TotalInBedMinutes  *int64     `bun:"total_in_bed_minutes"`
	TotalAwakeMinutes  *int64     `bun:"total_awake_minutes"`
	TotalLightMinutes  *int64     `bun:"total_light_minutes"`
	TotalDeepMinutes   *int64     `bun:"total_deep_minutes"`
	TotalREMMinutes    *int64     `bun:"total_rem_minutes"`
	TotalSleepMinutes  *int64     `bun:"total_sleep_minutes"`
	SleepPerformance   *float64   `bun:"sleep_performance"`
	SleepEfficiency    *float64   `bun:"sleep_efficiency"`
	SleepConsistency   *float64   `bun:"sleep_consistency"`
	RespiratoryRate    *float64   `bun:"respiratory_rate"`
	DisturbanceCount   *int       `bun:"disturbance_count"`
	SleepCycleCount    *int       `bun:"sleep_cycle_count"`
	SleepNeededMinutes *int64     `bun:"sleep_needed_minutes"`

	WorkoutCount     *int     `bun:"workout_count"`
	WorkoutCalories  *int64   `bun:"workout_calories"`
	WorkoutStrainMax *float64 `bun:"workout_strain_max"`

	SourceCreatedAt time.Time `bun:",notnull"`
	SourceUpdatedAt time.Time `bun:",notnull"`

	// CreatedAt is the source's creation time, not the first write.
	CreatedAt time.Time `bun:",notnull"`
	UpdatedAt time.Time `bun:",notnull"`
}

// CycleRecordID builds the primary key "{provider}_{cycleId}_{userId}".
func CycleRecordID(provider string, cycleID int64, userID string) string {
	return provider + "_" + strconv.FormatInt(cycleID, 10) + "_" + userID
}
