package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/utils"
	"gorm.io/gorm"
)

// GoalService manages study goals and their progress annotations.
type GoalService interface {
	// SetGoal creates or replaces the goal keyed by (student, subject,
	// period) in one atomic write.
	SetGoal(ctx context.Context, studentID string, req SetGoalRequest) (*models.StudyGoal, error)

	GetGoals(ctx context.Context, studentID string) ([]*models.StudyGoal, error)
	GetGoalsWithProgress(ctx context.Context, studentID string) ([]GoalProgress, error)
	DeleteGoal(ctx context.Context, goalID uint, studentID string) error
}

type SetGoalRequest struct {
	SubjectID     string            `json:"subject_id" validate:"required"`
	Period        models.GoalPeriod `json:"period" validate:"required,goal_period"`
	TargetMinutes int               `json:"target_minutes" validate:"required,min=1"`
}

type goalService struct {
	repo      repositories.Repository
	stats     StatisticsService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewGoalService(repo repositories.Repository, stats StatisticsService, logger *slog.Logger, validator *utils.Validator) GoalService {
	return &goalService{
		repo:      repo,
		stats:     stats,
		logger:    logger,
		validator: validator,
	}
}

func (s *goalService) SetGoal(ctx context.Context, studentID string, req SetGoalRequest) (*models.StudyGoal, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.SubjectID != models.GoalSubjectAll {
		subjectID, err := strconv.ParseUint(req.SubjectID, 10, 64)
		if err != nil {
			return nil, NewValidationError("subject_id", "must be a subject id or 'all'", req.SubjectID)
		}
		if _, err := s.repo.Subject().GetByID(ctx, uint(subjectID)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubjectNotFound
			}
			return nil, fmt.Errorf("failed to verify subject: %w", err)
		}
	}

	goal := &models.StudyGoal{
		StudentID:     studentID,
		SubjectID:     req.SubjectID,
		Period:        req.Period,
		TargetMinutes: req.TargetMinutes,
	}

	if err := s.repo.StudyGoal().Upsert(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to upsert goal: %w", err)
	}

	s.logger.Info("Set study goal",
		"student_id", studentID,
		"subject_id", req.SubjectID,
		"period", req.Period,
		"target_minutes", req.TargetMinutes)

	return goal, nil
}

func (s *goalService) GetGoals(ctx context.Context, studentID string) ([]*models.StudyGoal, error) {
	return s.repo.StudyGoal().GetByStudent(ctx, studentID)
}

func (s *goalService) GetGoalsWithProgress(ctx context.Context, studentID string) ([]GoalProgress, error) {
	goals, err := s.repo.StudyGoal().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}

	// One snapshot covers every period a goal can measure against.
	snapshot := s.stats.ComputeStatistics(ctx, studentID, models.ReportMonthly.WindowDays())

	progress := make([]GoalProgress, 0, len(goals))
	for _, goal := range goals {
		progress = append(progress, s.stats.CalculateProgress(goal, snapshot))
	}
	return progress, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, goalID uint, studentID string) error {
	goal, err := s.repo.StudyGoal().GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGoalNotFound
		}
		return fmt.Errorf("failed to get goal: %w", err)
	}
	if goal.StudentID != studentID {
		return NewPermissionError(studentID, "study_goal", "delete", "goal belongs to another student")
	}

	return s.repo.StudyGoal().Delete(ctx, goalID)
}
