package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/utils"
	"gorm.io/gorm"
)

// GradeService records test results. Grades are entered by admins for a
// student and are immutable once recorded.
type GradeService interface {
	RecordGrade(ctx context.Context, req RecordGradeRequest) (*models.Grade, error)
	GetGrades(ctx context.Context, studentID string, filters repositories.GradeFilters) ([]*models.Grade, error)
	DeleteGrade(ctx context.Context, gradeID uint) error
}

type RecordGradeRequest struct {
	StudentID string    `json:"student_id" validate:"required"`
	SubjectID uint      `json:"subject_id" validate:"required"`
	TestName  string    `json:"test_name" validate:"required,min=1,max=200"`
	Score     float64   `json:"score" validate:"min=0"`
	MaxScore  float64   `json:"max_score" validate:"required,gt=0"`
	TakenAt   time.Time `json:"taken_at" validate:"required"`
	Feedback  *string   `json:"feedback,omitempty"`
}

type gradeService struct {
	repo      repositories.Repository
	notifier  NotificationService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewGradeService(repo repositories.Repository, notifier NotificationService, logger *slog.Logger, validator *utils.Validator) GradeService {
	return &gradeService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		validator: validator,
	}
}

func (s *gradeService) RecordGrade(ctx context.Context, req RecordGradeRequest) (*models.Grade, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Score > req.MaxScore {
		return nil, NewValidationError("score", "cannot exceed max_score", req.Score)
	}

	student, err := s.repo.User().GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if !student.IsStudent() {
		return nil, ErrStudentRequired
	}

	if _, err := s.repo.Subject().GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to verify subject: %w", err)
	}

	grade := &models.Grade{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TestName:  req.TestName,
		Score:     req.Score,
		MaxScore:  req.MaxScore,
		TakenAt:   req.TakenAt.UTC(),
		Feedback:  req.Feedback,
	}

	if err := s.repo.Grade().Create(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to record grade: %w", err)
	}

	if err := s.notifier.NotifyGradeRecorded(ctx, grade); err != nil {
		s.logger.Warn("Failed to send grade recorded notification",
			"grade_id", grade.ID, "error", err)
	}

	return grade, nil
}

func (s *gradeService) GetGrades(ctx context.Context, studentID string, filters repositories.GradeFilters) ([]*models.Grade, error) {
	return s.repo.Grade().GetByStudent(ctx, studentID, filters)
}

func (s *gradeService) DeleteGrade(ctx context.Context, gradeID uint) error {
	if _, err := s.repo.Grade().GetByID(ctx, gradeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		return fmt.Errorf("failed to get grade: %w", err)
	}
	return s.repo.Grade().Delete(ctx, gradeID)
}
