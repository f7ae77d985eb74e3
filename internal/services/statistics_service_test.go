package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeStatistics(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("BucketsAgreeOnTotal", func(t *testing.T) {
		repo := newFakeRepository()
		repo.studyLog.logs = []*models.StudyLog{
			{ID: 1, StudentID: "s10101", SubjectID: 1, DurationMinutes: 30, LoggedAt: now.Add(-2 * time.Hour)},
			{ID: 2, StudentID: "s10101", SubjectID: 1, DurationMinutes: 45, LoggedAt: now.Add(-26 * time.Hour)},
			{ID: 3, StudentID: "s10101", SubjectID: 2, DurationMinutes: 90, LoggedAt: now.Add(-50 * time.Hour)},
			// Other students never leak into the snapshot.
			{ID: 4, StudentID: "s10102", SubjectID: 1, DurationMinutes: 500, LoggedAt: now.Add(-1 * time.Hour)},
		}
		service := NewStatisticsService(repo, testLogger())

		snapshot := service.ComputeStatistics(ctx, "s10101", 7)

		assert.Equal(t, "s10101", snapshot.StudentID)
		assert.Equal(t, 7, snapshot.WindowDays)
		assert.Equal(t, 165, snapshot.TotalMinutes)
		assert.Equal(t, 3, snapshot.LogCount)

		for name, bucket := range map[string]map[string]int{
			"day":     snapshot.MinutesByDay,
			"week":    snapshot.MinutesByWeek,
			"month":   snapshot.MinutesByMonth,
			"subject": snapshot.MinutesBySubject,
			"hour":    snapshot.MinutesByHour,
			"weekday": snapshot.MinutesByWeekday,
		} {
			sum := 0
			for _, minutes := range bucket {
				sum += minutes
			}
			assert.Equal(t, snapshot.TotalMinutes, sum, "bucket %s must sum to the total", name)
		}

		assert.Equal(t, 75, snapshot.MinutesBySubject["1"])
		assert.Equal(t, 90, snapshot.MinutesBySubject["2"])
	})

	t.Run("NoLogsYieldsZeroSnapshot", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewStatisticsService(repo, testLogger())

		snapshot := service.ComputeStatistics(ctx, "s10101", 30)

		assert.Equal(t, 0, snapshot.TotalMinutes)
		assert.Equal(t, 0, snapshot.LogCount)
		assert.Empty(t, snapshot.MinutesByDay)
		assert.NotNil(t, snapshot.MinutesByDay)
	})

	t.Run("RepositoryErrorYieldsZeroSnapshot", func(t *testing.T) {
		repo := newFakeRepository()
		repo.studyLog.sinceErr = errors.New("connection refused")
		service := NewStatisticsService(repo, testLogger())

		snapshot := service.ComputeStatistics(ctx, "s10101", 7)

		assert.Equal(t, 0, snapshot.TotalMinutes)
		assert.Equal(t, 0, snapshot.LogCount)
		assert.Equal(t, "s10101", snapshot.StudentID)
	})

	t.Run("AggregateStatisticsPropagatesFetchErrors", func(t *testing.T) {
		repo := newFakeRepository()
		repo.studyLog.sinceErr = errors.New("connection refused")
		service := NewStatisticsService(repo, testLogger())

		snapshot, err := service.AggregateStatistics(ctx, "s10101", 7)

		assert.Error(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("LogsOutsideWindowAreExcluded", func(t *testing.T) {
		repo := newFakeRepository()
		repo.studyLog.logs = []*models.StudyLog{
			{ID: 1, StudentID: "s10101", SubjectID: 1, DurationMinutes: 60, LoggedAt: now.Add(-1 * time.Hour)},
			{ID: 2, StudentID: "s10101", SubjectID: 1, DurationMinutes: 60, LoggedAt: now.AddDate(0, 0, -10)},
		}
		service := NewStatisticsService(repo, testLogger())

		snapshot := service.ComputeStatistics(ctx, "s10101", 7)

		assert.Equal(t, 60, snapshot.TotalMinutes)
		assert.Equal(t, 1, snapshot.LogCount)
	})
}

func TestBucketKeys(t *testing.T) {
	t.Run("DayAndMonth", func(t *testing.T) {
		at := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)
		assert.Equal(t, "2025-03-09", DayKey(at))
		assert.Equal(t, "2025-03", MonthKey(at))
	})

	t.Run("NonUTCTimesBucketInUTC", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		// 08:00 JST on March 10 is 23:00 UTC on March 9.
		at := time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo)
		assert.Equal(t, "2025-03-09", DayKey(at))
	})

	t.Run("WeekOneHoldsJanuaryFirst", func(t *testing.T) {
		// 2025-01-01 is a Wednesday.
		assert.Equal(t, "2025-01", WeekKey(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
		// Saturday Jan 4 still falls in week 1.
		assert.Equal(t, "2025-01", WeekKey(time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)))
		// Sunday Jan 5 starts week 2.
		assert.Equal(t, "2025-02", WeekKey(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("YearStartingOnSunday", func(t *testing.T) {
		// 2023-01-01 is a Sunday, so weeks align with calendar weeks.
		assert.Equal(t, "2023-01", WeekKey(time.Date(2023, 1, 7, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "2023-02", WeekKey(time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("WeekKeysNeverCrossYears", func(t *testing.T) {
		dec31 := WeekKey(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
		jan1 := WeekKey(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.NotEqual(t, dec31, jan1)
		assert.Equal(t, "2025-01", jan1)
	})
}

func TestCalculateProgress(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	buildSnapshot := func(logs []*models.StudyLog) *StatisticsSnapshot {
		repo := newFakeRepository()
		repo.studyLog.logs = logs
		service := NewStatisticsService(repo, testLogger())
		return service.ComputeStatistics(ctx, "s10101", 30)
	}

	service := NewStatisticsService(newFakeRepository(), testLogger())

	t.Run("SubjectGoalReadsWindowTotal", func(t *testing.T) {
		snapshot := buildSnapshot([]*models.StudyLog{
			{StudentID: "s10101", SubjectID: 3, DurationMinutes: 40, LoggedAt: now.AddDate(0, 0, -20)},
			{StudentID: "s10101", SubjectID: 3, DurationMinutes: 20, LoggedAt: now.Add(-1 * time.Hour)},
			{StudentID: "s10101", SubjectID: 4, DurationMinutes: 999, LoggedAt: now.Add(-1 * time.Hour)},
		})
		goal := &models.StudyGoal{StudentID: "s10101", SubjectID: "3", Period: models.GoalWeekly, TargetMinutes: 120}

		progress := service.CalculateProgress(goal, snapshot)

		assert.Equal(t, 60, progress.ActualMinutes)
		assert.Equal(t, 50, progress.Percent)
		assert.False(t, progress.Achieved)
	})

	t.Run("AllGoalReadsCurrentPeriodBucket", func(t *testing.T) {
		snapshot := buildSnapshot([]*models.StudyLog{
			{StudentID: "s10101", SubjectID: 1, DurationMinutes: 25, LoggedAt: now.Add(-1 * time.Minute)},
			{StudentID: "s10101", SubjectID: 2, DurationMinutes: 35, LoggedAt: now.Add(-2 * time.Minute)},
			// Well outside today, still inside the window.
			{StudentID: "s10101", SubjectID: 1, DurationMinutes: 300, LoggedAt: now.AddDate(0, 0, -15)},
		})
		goal := &models.StudyGoal{StudentID: "s10101", SubjectID: models.GoalSubjectAll, Period: models.GoalDaily, TargetMinutes: 60}

		progress := service.CalculateProgress(goal, snapshot)

		assert.Equal(t, 60, progress.ActualMinutes)
		assert.Equal(t, 100, progress.Percent)
		assert.True(t, progress.Achieved)
	})

	t.Run("PercentIsClampedAtHundred", func(t *testing.T) {
		snapshot := buildSnapshot([]*models.StudyLog{
			{StudentID: "s10101", SubjectID: 5, DurationMinutes: 500, LoggedAt: now.Add(-1 * time.Hour)},
		})
		goal := &models.StudyGoal{StudentID: "s10101", SubjectID: "5", Period: models.GoalDaily, TargetMinutes: 100}

		progress := service.CalculateProgress(goal, snapshot)

		assert.Equal(t, 500, progress.ActualMinutes)
		assert.Equal(t, 100, progress.Percent)
		assert.True(t, progress.Achieved)
	})

	t.Run("PercentRounds", func(t *testing.T) {
		snapshot := buildSnapshot([]*models.StudyLog{
			{StudentID: "s10101", SubjectID: 5, DurationMinutes: 100, LoggedAt: now.Add(-1 * time.Hour)},
		})
		goal := &models.StudyGoal{StudentID: "s10101", SubjectID: "5", Period: models.GoalDaily, TargetMinutes: 300}

		progress := service.CalculateProgress(goal, snapshot)

		// 100/300 rounds to 33.
		assert.Equal(t, 33, progress.Percent)
	})

	t.Run("EmptySnapshotIsZeroProgress", func(t *testing.T) {
		snapshot := buildSnapshot(nil)
		goal := &models.StudyGoal{StudentID: "s10101", SubjectID: models.GoalSubjectAll, Period: models.GoalMonthly, TargetMinutes: 600}

		progress := service.CalculateProgress(goal, snapshot)

		assert.Equal(t, 0, progress.ActualMinutes)
		assert.Equal(t, 0, progress.Percent)
		assert.False(t, progress.Achieved)
	})

	t.Run("ProgressIsMonotonicInActualMinutes", func(t *testing.T) {
		goal := &models.StudyGoal{StudentID: "s10101", SubjectID: "7", Period: models.GoalWeekly, TargetMinutes: 200}
		previous := -1
		for _, minutes := range []int{0, 50, 100, 150, 200, 400} {
			snapshot := newSnapshot("s10101", 30)
			snapshot.MinutesBySubject["7"] = minutes
			progress := service.CalculateProgress(goal, snapshot)
			assert.GreaterOrEqual(t, progress.Percent, previous,
				fmt.Sprintf("percent dropped at %d minutes", minutes))
			previous = progress.Percent
		}
	})
}
