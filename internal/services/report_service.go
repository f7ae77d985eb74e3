package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/datatypes"
)

const reflectionSummaryCount = 5

// ReportService builds and persists trailing-window reports for students.
type ReportService interface {
	// GenerateReport computes a report over the period's trailing window,
	// persists it, and returns the stored row.
	GenerateReport(ctx context.Context, studentID string, period models.ReportPeriod) (*models.Report, error)

	GetReports(ctx context.Context, studentID string, limit int) ([]*models.Report, error)
	GetLatestReport(ctx context.Context, studentID string) (*models.Report, error)
}

type reportService struct {
	repo   repositories.Repository
	stats  StatisticsService
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, stats StatisticsService, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		stats:  stats,
		logger: logger,
	}
}

func (s *reportService) GenerateReport(ctx context.Context, studentID string, period models.ReportPeriod) (*models.Report, error) {
	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if !student.IsStudent() {
		return nil, ErrStudentRequired
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -period.WindowDays())

	snapshot, err := s.stats.AggregateStatistics(ctx, studentID, period.WindowDays())
	if err != nil {
		return nil, fmt.Errorf("failed to get study logs for report: %w", err)
	}

	assignments, err := s.repo.Assignment().GetByStudentDueBetween(ctx, studentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments for report: %w", err)
	}
	completed := 0
	for _, a := range assignments {
		// A late completion is still a completion.
		if a.Status == models.AssignmentCompleted || a.Status == models.AssignmentLate {
			completed++
		}
	}

	grades, err := s.repo.Grade().GetByStudentTakenBetween(ctx, studentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get grades for report: %w", err)
	}
	avgGrade := 0.0
	if len(grades) > 0 {
		sum := 0.0
		for _, g := range grades {
			sum += g.Score / g.MaxScore * 100
		}
		avgGrade = sum / float64(len(grades))
	}

	reflections, err := s.repo.Reflection().GetByStudentBetween(ctx, studentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get reflections for report: %w", err)
	}
	avgRating := 0.0
	if len(reflections) > 0 {
		sum := 0
		for _, r := range reflections {
			sum += r.SelfRating
		}
		avgRating = float64(sum) / float64(len(reflections))
	}

	report := &models.Report{
		StudentID:            studentID,
		Period:               period,
		StartDate:            start,
		EndDate:              end,
		TotalStudyMinutes:    snapshot.TotalMinutes,
		SubjectStudyTime:     datatypes.NewJSONType(s.subjectMinutesByName(ctx, snapshot)),
		CompletedAssignments: completed,
		TotalAssignments:     len(assignments),
		AverageGradePercent:  avgGrade,
		AverageSelfRating:    avgRating,
		ReflectionSummary:    summarizeReflections(reflections),
		ReflectionCount:      len(reflections),
	}

	if err := s.repo.Report().Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	s.logger.Info("Generated report",
		"student_id", studentID,
		"period", period,
		"total_minutes", report.TotalStudyMinutes,
		"assignments", report.TotalAssignments)

	return report, nil
}

func (s *reportService) GetReports(ctx context.Context, studentID string, limit int) ([]*models.Report, error) {
	return s.repo.Report().GetByStudent(ctx, studentID, limit)
}

func (s *reportService) GetLatestReport(ctx context.Context, studentID string) (*models.Report, error) {
	report, err := s.repo.Report().GetLatest(ctx, studentID)
	if err != nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// subjectMinutesByName re-keys the snapshot's subject bucket by subject
// name. Subjects deleted since logging keep their numeric key.
func (s *reportService) subjectMinutesByName(ctx context.Context, snapshot *StatisticsSnapshot) map[string]int {
	out := make(map[string]int, len(snapshot.MinutesBySubject))

	subjects, err := s.repo.Subject().List(ctx)
	if err != nil {
		s.logger.Warn("Failed to resolve subject names for report", "error", err)
		for id, minutes := range snapshot.MinutesBySubject {
			out[id] = minutes
		}
		return out
	}

	names := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		names[strconv.FormatUint(uint64(subject.ID), 10)] = subject.Name
	}

	for id, minutes := range snapshot.MinutesBySubject {
		key := id
		if name, ok := names[id]; ok {
			key = name
		}
		out[key] += minutes
	}
	return out
}

// summarizeReflections joins the most recent reflection notes, newest
// first, capped at reflectionSummaryCount entries.
func summarizeReflections(reflections []*models.DailyReflection) string {
	if len(reflections) == 0 {
		return ""
	}

	sorted := make([]*models.DailyReflection, len(reflections))
	copy(sorted, reflections)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ReflectionDate.After(sorted[j].ReflectionDate)
	})

	count := len(sorted)
	if count > reflectionSummaryCount {
		count = reflectionSummaryCount
	}

	parts := make([]string, 0, count)
	for _, r := range sorted[:count] {
		parts = append(parts, r.Content)
	}
	return strings.Join(parts, " / ")
}
