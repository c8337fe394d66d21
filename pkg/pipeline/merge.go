package pipeline

import (
	"math"
	"time"

	"github.com/quatton/vitalsync/pkg/db/models"
	"github.com/quatton/vitalsync/pkg/whoop"
)

const kilojoulesPerKilocalorie = 4.184

// KilojoulesToKilocalories rounds to the nearest whole kcal.
func KilojoulesToKilocalories(kj float64) int64 {
	return int64(math.Round(kj / kilojoulesPerKilocalorie))
}

// MillisToMinutes rounds to the nearest whole minute.
func MillisToMinutes(ms int64) int64 {
	return int64(math.Round(float64(ms) / 60000))
}

// Merge joins the streams into one record per cycle. Recovery is matched by
// cycle id and sleep by the recovery's sleep id; anything unmatched leaves
// the corresponding fields nil. Records come out in cycle order.
func Merge(provider, userID string, s *Streams) []models.CycleRecord {
	if s == nil || len(s.Cycles) == 0 {
		return nil
	}
	workoutsOK := s.Ok(StreamWorkouts)

	out := make([]models.CycleRecord, 0, len(s.Cycles))
	for _, c := range s.Cycles {
		rec := models.CycleRecord{
			ID:              models.CycleRecordID(provider, c.ID, userID),
			Provider:        provider,
			UserID:          userID,
			CycleID:         c.ID,
			Start:           c.Start.UTC(),
			End:             utcPtr(c.End),
			TimezoneOffset:  c.TimezoneOffset,
			ScoreState:      string(c.ScoreState),
			SourceCreatedAt: c.CreatedAt.UTC(),
			SourceUpdatedAt: c.UpdatedAt.UTC(),
			CreatedAt:       c.CreatedAt.UTC(),
		}
		applyCycleScore(&rec, c.Score)

		if r := findRecovery(s.Recoveries, c.ID); r != nil {
			applyRecovery(&rec, r)
			if sl := findSleep(s.Sleeps, r.SleepID); sl != nil {
				applySleep(&rec, sl)
			}
		}
		if workoutsOK {
			applyWorkouts(&rec, c, s.Workouts)
		}
		out = append(out, rec)
	}
	return out
}

func findRecovery(recoveries []whoop.Recovery, cycleID int64) *whoop.Recovery {
	for i := range recoveries {
		if recoveries[i].CycleID == cycleID {
			return &recoveries[i]
		}
	}
	return nil
}

func findSleep(sleeps []whoop.Sleep, sleepID string) *whoop.Sleep {
	if sleepID == "" {
		return nil
	}
	for i := range sleeps {
		if sleeps[i].ID == sleepID {
			return &sleeps[i]
		}
	}
	return nil
}

func applyCycleScore(rec *models.CycleRecord, sc *whoop.CycleScore) {
	if sc == nil {
		return
	}
	rec.Strain = sc.Strain
	if sc.Kilojoule != nil {
		kcal := KilojoulesToKilocalories(*sc.Kilojoule)
		rec.Calories = &kcal
	}
	rec.AverageHeartRate = sc.AverageHeartRate
	rec.MaxHeartRate = sc.MaxHeartRate
}

func applyRecovery(rec *models.CycleRecord, r *whoop.Recovery) {
	if r.Score == nil {
		return
	}
	rec.RecoveryScore = r.Score.RecoveryScore
	rec.RestingHeartRate = r.Score.RestingHeartRate
	rec.HRVRMSSDMilli = r.Score.HRVRMSSDMilli
	rec.SpO2Percentage = r.Score.SpO2Percentage
	rec.SkinTempCelsius = r.Score.SkinTempCelsius
	rec.UserCalibrating = r.Score.UserCalibrating
}

func applySleep(rec *models.CycleRecord, sl *whoop.Sleep) {
	id := sl.ID
	rec.SleepID = &id
	start, end := sl.Start.UTC(), sl.End.UTC()
	rec.SleepStart = &start
	rec.SleepEnd = &end

	sc := sl.Score
	if sc == nil {
		return
	}
	rec.SleepPerformance = sc.SleepPerformancePercentage
	rec.SleepEfficiency = sc.SleepEfficiencyPercentage
	rec.SleepConsistency = sc.SleepConsistencyPercentage
	rec.RespiratoryRate = sc.RespiratoryRate

	if st := sc.StageSummary; st != nil {
		rec.TotalInBedMinutes = minutes(st.TotalInBedTimeMilli)
		rec.TotalAwakeMinutes = minutes(st.TotalAwakeTimeMilli)
		rec.TotalLightMinutes = minutes(st.TotalLightSleepTimeMilli)
		rec.TotalDeepMinutes = minutes(st.TotalSlowWaveSleepTimeMilli)
		rec.TotalREMMinutes = minutes(st.TotalREMSleepTimeMilli)
		if st.TotalLightSleepTimeMilli != nil && st.TotalSlowWaveSleepTimeMilli != nil && st.TotalREMSleepTimeMilli != nil {
			asleep := *st.TotalLightSleepTimeMilli + *st.TotalSlowWaveSleepTimeMilli + *st.TotalREMSleepTimeMilli
			rec.TotalSleepMinutes = minutes(&asleep)
		}
		rec.DisturbanceCount = st.DisturbanceCount
		rec.SleepCycleCount = st.SleepCycleCount
	}

	if need := sc.SleepNeeded; need != nil && need.BaselineMilli != nil {
		total := *need.BaselineMilli
		for _, part := range []*int64{need.NeedFromSleepDebtMilli, need.NeedFromRecentStrainMilli, need.NeedFromRecentNapMilli} {
			if part != nil {
				total += *part
			}
		}
		rec.SleepNeededMinutes = minutes(&total)
	}
}

// applyWorkouts aggregates workouts starting in [cycle.Start, cycle.End). An
// ongoing cycle has no upper bound.
func applyWorkouts(rec *models.CycleRecord, c whoop.Cycle, workouts []whoop.Workout) {
	var (
		count     int
		kilojoule float64
		strainMax *float64
	)
	for _, w := range workouts {
		if w.Start.Before(c.Start) {
			continue
		}
		if c.End != nil && !w.Start.Before(*c.End) {
			continue
		}
		count++
		if w.Score == nil {
			continue
		}
		if w.Score.Kilojoule != nil {
			kilojoule += *w.Score.Kilojoule
		}
		if s := w.Score.Strain; s != nil && (strainMax == nil || *s > *strainMax) {
			v := *s
			strainMax = &v
		}
	}
	kcal := KilojoulesToKilocalories(kilojoule)
	rec.WorkoutCount = &count
	rec.WorkoutCalories = &kcal
	rec.WorkoutStrainMax = strainMax
}

func minutes(ms *int64) *int64 {
	if ms == nil {
		return nil
	}
	m := MillisToMinutes(*ms)
	return &m
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
