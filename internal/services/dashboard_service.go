package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

// DashboardService assembles the aggregate views for the student home
// screen and the read-only parent view.
type DashboardService interface {
	GetStudentDashboard(ctx context.Context, studentID string) (*StudentDashboard, error)

	// GetChildSummary is the parent's view of one student. The caller is
	// responsible for verifying the parent-child link first.
	GetChildSummary(ctx context.Context, studentID string) (*ChildSummary, error)
}

type StudentDashboard struct {
	StudentID      string               `json:"student_id"`
	Name           string               `json:"name"`
	TodayMinutes   int                  `json:"today_minutes"`
	WeekMinutes    int                  `json:"week_minutes"`
	WeekLogCount   int                  `json:"week_log_count"`
	PendingCount   int                  `json:"pending_assignments"`
	UnreadCount    int64                `json:"unread_notifications"`
	GoalProgress   []GoalProgress       `json:"goal_progress"`
	TodayReflected bool                 `json:"today_reflected"`
	LatestReport   *models.Report       `json:"latest_report,omitempty"`
	DueSoon        []*models.Assignment `json:"due_soon"`
}

type ChildSummary struct {
	Student      *models.User                   `json:"student"`
	WeekMinutes  int                            `json:"week_minutes"`
	Snapshot     *StatisticsSnapshot            `json:"snapshot"`
	Assignments  *repositories.AssignmentCounts `json:"assignments"`
	RecentGrades []*models.Grade                `json:"recent_grades"`
	GoalProgress []GoalProgress                 `json:"goal_progress"`
	LatestReport *models.Report                 `json:"latest_report,omitempty"`
	Reflections  []*models.DailyReflection      `json:"recent_reflections"`
}

type dashboardService struct {
	repo   repositories.Repository
	stats  StatisticsService
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, stats StatisticsService, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		stats:  stats,
		logger: logger,
	}
}

func (s *dashboardService) GetStudentDashboard(ctx context.Context, studentID string) (*StudentDashboard, error) {
	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	now := time.Now().UTC()
	snapshot := s.stats.ComputeStatistics(ctx, studentID, models.ReportMonthly.WindowDays())

	dashboard := &StudentDashboard{
		StudentID:    studentID,
		Name:         student.Name,
		TodayMinutes: snapshot.MinutesByDay[DayKey(now)],
		WeekMinutes:  snapshot.MinutesByWeek[WeekKey(now)],
		WeekLogCount: snapshot.LogCount,
	}

	counts, err := s.repo.Assignment().GetCounts(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment counts: %w", err)
	}
	dashboard.PendingCount = counts.Pending

	unread, err := s.repo.Notification().CountUnread(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	dashboard.UnreadCount = unread

	goals, err := s.repo.StudyGoal().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	for _, goal := range goals {
		dashboard.GoalProgress = append(dashboard.GoalProgress, s.stats.CalculateProgress(goal, snapshot))
	}

	if _, err := s.repo.Reflection().GetByStudentAndDate(ctx, studentID, now); err == nil {
		dashboard.TodayReflected = true
	}

	if latest, err := s.repo.Report().GetLatest(ctx, studentID); err == nil {
		dashboard.LatestReport = latest
	}

	dueSoon, err := s.repo.Assignment().GetByStudentDueBetween(ctx, studentID, now, now.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming assignments: %w", err)
	}
	for _, a := range dueSoon {
		if a.Status == models.AssignmentPending {
			dashboard.DueSoon = append(dashboard.DueSoon, a)
		}
	}

	return dashboard, nil
}

func (s *dashboardService) GetChildSummary(ctx context.Context, studentID string) (*ChildSummary, error) {
	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChildNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if !student.IsStudent() {
		return nil, ErrStudentRequired
	}

	now := time.Now().UTC()
	snapshot := s.stats.ComputeStatistics(ctx, studentID, models.ReportMonthly.WindowDays())

	summary := &ChildSummary{
		Student:     student,
		WeekMinutes: snapshot.MinutesByWeek[WeekKey(now)],
		Snapshot:    snapshot,
	}

	counts, err := s.repo.Assignment().GetCounts(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment counts: %w", err)
	}
	summary.Assignments = counts

	grades, err := s.repo.Grade().GetByStudent(ctx, studentID, repositories.GradeFilters{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to get recent grades: %w", err)
	}
	summary.RecentGrades = grades

	goals, err := s.repo.StudyGoal().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	for _, goal := range goals {
		summary.GoalProgress = append(summary.GoalProgress, s.stats.CalculateProgress(goal, snapshot))
	}

	if latest, err := s.repo.Report().GetLatest(ctx, studentID); err == nil {
		summary.LatestReport = latest
	}

	reflections, err := s.repo.Reflection().GetByStudentBetween(ctx, studentID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent reflections: %w", err)
	}
	summary.Reflections = reflections

	return summary, nil
}
