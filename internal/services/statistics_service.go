package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
)

// StatisticsService aggregates a student's study logs into bucketed
// snapshots and evaluates goal progress against them.
type StatisticsService interface {
	// ComputeStatistics builds a snapshot over the trailing windowDays.
	// A failed log fetch yields a zero snapshot, not an error.
	ComputeStatistics(ctx context.Context, studentID string, windowDays int) *StatisticsSnapshot

	// AggregateStatistics is ComputeStatistics for callers that must not
	// mistake a store failure for an empty window; the fetch error is
	// returned instead of swallowed.
	AggregateStatistics(ctx context.Context, studentID string, windowDays int) (*StatisticsSnapshot, error)

	// CalculateProgress evaluates one goal against a snapshot. Pure; no I/O.
	CalculateProgress(goal *models.StudyGoal, snapshot *StatisticsSnapshot) GoalProgress
}

// StatisticsSnapshot holds every bucketed view of a student's study time
// over one trailing window. All bucket keys derive from LoggedAt in UTC.
type StatisticsSnapshot struct {
	StudentID  string `json:"student_id"`
	WindowDays int    `json:"window_days"`

	TotalMinutes int `json:"total_minutes"`
	LogCount     int `json:"log_count"`

	MinutesByDay     map[string]int `json:"minutes_by_day"`     // "2006-01-02"
	MinutesByWeek    map[string]int `json:"minutes_by_week"`    // "2006-02"
	MinutesByMonth   map[string]int `json:"minutes_by_month"`   // "2006-01"
	MinutesBySubject map[string]int `json:"minutes_by_subject"` // subject id as string
	MinutesByHour    map[string]int `json:"minutes_by_hour"`    // "0".."23"
	MinutesByWeekday map[string]int `json:"minutes_by_weekday"` // "0" Sunday .. "6" Saturday
}

// GoalProgress is one goal annotated with how far along it is.
type GoalProgress struct {
	Goal          models.StudyGoal `json:"goal"`
	ActualMinutes int              `json:"actual_minutes"`
	Percent       int              `json:"percent"`
	Achieved      bool             `json:"achieved"`
}

type statisticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStatisticsService(repo repositories.Repository, logger *slog.Logger) StatisticsService {
	return &statisticsService{
		repo:   repo,
		logger: logger,
	}
}

func newSnapshot(studentID string, windowDays int) *StatisticsSnapshot {
	return &StatisticsSnapshot{
		StudentID:        studentID,
		WindowDays:       windowDays,
		MinutesByDay:     make(map[string]int),
		MinutesByWeek:    make(map[string]int),
		MinutesByMonth:   make(map[string]int),
		MinutesBySubject: make(map[string]int),
		MinutesByHour:    make(map[string]int),
		MinutesByWeekday: make(map[string]int),
	}
}

func (s *statisticsService) ComputeStatistics(ctx context.Context, studentID string, windowDays int) *StatisticsSnapshot {
	snapshot, err := s.AggregateStatistics(ctx, studentID, windowDays)
	if err != nil {
		s.logger.Error("Failed to fetch study logs for statistics, returning empty snapshot",
			"student_id", studentID,
			"window_days", windowDays,
			"error", err)
		return newSnapshot(studentID, windowDays)
	}
	return snapshot
}

func (s *statisticsService) AggregateStatistics(ctx context.Context, studentID string, windowDays int) (*StatisticsSnapshot, error) {
	snapshot := newSnapshot(studentID, windowDays)

	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	logs, err := s.repo.StudyLog().GetByStudentSince(ctx, studentID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch study logs: %w", err)
	}

	for _, log := range logs {
		minutes := log.DurationMinutes
		at := log.LoggedAt.UTC()

		snapshot.TotalMinutes += minutes
		snapshot.LogCount++

		snapshot.MinutesByDay[DayKey(at)] += minutes
		snapshot.MinutesByWeek[WeekKey(at)] += minutes
		snapshot.MinutesByMonth[MonthKey(at)] += minutes
		snapshot.MinutesBySubject[strconv.FormatUint(uint64(log.SubjectID), 10)] += minutes
		snapshot.MinutesByHour[strconv.Itoa(at.Hour())] += minutes
		snapshot.MinutesByWeekday[strconv.Itoa(int(at.Weekday()))] += minutes
	}

	return snapshot, nil
}

func (s *statisticsService) CalculateProgress(goal *models.StudyGoal, snapshot *StatisticsSnapshot) GoalProgress {
	actual := actualMinutesFor(goal, snapshot, time.Now().UTC())

	percent := 0
	if goal.TargetMinutes > 0 {
		percent = int(math.Round(float64(actual) / float64(goal.TargetMinutes) * 100))
		if percent > 100 {
			percent = 100
		}
	}

	return GoalProgress{
		Goal:          *goal,
		ActualMinutes: actual,
		Percent:       percent,
		Achieved:      goal.TargetMinutes > 0 && actual >= goal.TargetMinutes,
	}
}

// actualMinutesFor resolves the minutes a goal measures itself against.
// An "all" goal reads the current period bucket; a subject goal reads the
// window-wide subject total.
func actualMinutesFor(goal *models.StudyGoal, snapshot *StatisticsSnapshot, now time.Time) int {
	if goal.SubjectID != models.GoalSubjectAll {
		return snapshot.MinutesBySubject[goal.SubjectID]
	}

	switch goal.Period {
	case models.GoalDaily:
		return snapshot.MinutesByDay[DayKey(now)]
	case models.GoalWeekly:
		return snapshot.MinutesByWeek[WeekKey(now)]
	case models.GoalMonthly:
		return snapshot.MinutesByMonth[MonthKey(now)]
	}
	return 0
}

// ===== BUCKET KEYS =====

// DayKey formats a UTC day bucket.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MonthKey formats a UTC month bucket.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// WeekKey formats a UTC week bucket as year-weeknumber with the week
// starting on Sunday and week 1 holding January 1st.
func WeekKey(t time.Time) string {
	t = t.UTC()
	jan1 := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	pastDays := t.YearDay() - 1
	week := int(math.Ceil(float64(pastDays+int(jan1.Weekday())+1) / 7))
	return fmt.Sprintf("%d-%02d", t.Year(), week)
}
