package whoop

import "time"

// ScoreState reports whether WHOOP has finished scoring a record. Scores on
// PENDING_SCORE records are provisional and may change on a later fetch.
type ScoreState string

const (
	ScoreStateScored     ScoreState = "SCORED"
	ScoreStatePending    ScoreState = "PENDING_SCORE"
	ScoreStateUnscorable ScoreState = "UNSCORABLE"
)

// Cycle is one physiological day. End is nil while the cycle is ongoing.
type Cycle struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Start          time.Time   `json:"start"`
	End            *time.Time  `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	ScoreState     ScoreState  `json:"score_state"`
	Score          *CycleScore `json:"score"`
}

type CycleScore struct {
	Strain           *float64 `json:"strain"`
	Kilojoule        *float64 `json:"kilojoule"`
	AverageHeartRate *int     `json:"average_heart_rate"`
	MaxHeartRate     *int     `json:"max_heart_rate"`
}

// Recovery belongs to exactly one cycle and points at the sleep it was
// computed from.
type Recovery struct {
	CycleID    int64          `json:"cycle_id"`
	SleepID    string         `json:"sleep_id"`
	UserID     int64          `json:"user_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ScoreState ScoreState     `json:"score_state"`
	Score      *RecoveryScore `json:"score"`
}

type RecoveryScore struct {
	UserCalibrating  *bool    `json:"user_calibrating"`
	RecoveryScore    *float64 `json:"recovery_score"`
	RestingHeartRate *float64 `json:"resting_heart_rate"`
	HRVRMSSDMilli    *float64 `json:"hrv_rmssd_milli"`
	SpO2Percentage   *float64 `json:"spo2_percentage"`
	SkinTempCelsius  *float64 `json:"skin_temp_celsius"`
}

type Sleep struct {
	ID             string      `json:"id"`
	CycleID        int64       `json:"cycle_id"`
	UserID         int64       `json:"user_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	Nap            bool        `json:"nap"`
	ScoreState     ScoreState  `json:"score_state"`
	Score          *SleepScore `json:"score"`
}

type SleepScore struct {
	StageSummary               *StageSummary `json:"stage_summary"`
	SleepNeeded                *SleepNeeded  `json:"sleep_needed"`
	RespiratoryRate            *float64      `json:"respiratory_rate"`
	SleepPerformancePercentage *float64      `json:"sleep_performance_percentage"`
	SleepConsistencyPercentage *float64      `json:"sleep_consistency_percentage"`
	SleepEfficiencyPercentage  *float64      `json:"sleep_efficiency_percentage"`
}

// StageSummary durations are milliseconds.
type StageSummary struct {
	TotalInBedTimeMilli         *int64 `json:"total_in_bed_time_milli"`
	TotalAwakeTimeMilli         *int64 `json:"total_awake_time_milli"`
	TotalNoDataTimeMilli        *int64 `json:"total_no_data_time_milli"`
	TotalLightSleepTimeMilli    *int64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepTimeMilli *int64 `json:"total_slow_wave_sleep_time_milli"`
	TotalREMSleepTimeMilli      *int64 `json:"total_rem_sleep_time_milli"`
	SleepCycleCount             *int   `json:"sleep_cycle_count"`
	DisturbanceCount            *int   `json:"disturbance_count"`
}

type SleepNeeded struct {
	BaselineMilli             *int64 `json:"baseline_milli"`
	NeedFromSleepDebtMilli    *int64 `json:"need_from_sleep_debt_milli"`
	NeedFromRecentStrainMilli *int64 `json:"need_from_recent_strain_milli"`
	NeedFromRecentNapMilli    *int64 `json:"need_from_recent_nap_milli"`
}

type Workout struct {
	ID             string        `json:"id"`
	UserID         int64         `json:"user_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	TimezoneOffset string        `json:"timezone_offset"`
	SportName      string        `json:"sport_name"`
	ScoreState     ScoreState    `json:"score_state"`
	Score          *WorkoutScore `json:"score"`
}

type WorkoutScore struct {
	Strain           *float64 `json:"strain"`
	AverageHeartRate *int     `json:"average_heart_rate"`
	MaxHeartRate     *int     `json:"max_heart_rate"`
	Kilojoule        *float64 `json:"kilojoule"`
}

// Profile is the basic profile of the authorizing member.
type Profile struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// page is the collection envelope shared by every paginated endpoint.
type page[T any] struct {
	Records   []T    `json:"records"`
	NextToken string `json:"next_token"`
}
