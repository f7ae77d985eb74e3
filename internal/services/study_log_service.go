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

// StudyLogService records and reads study sessions. Logs are immutable
// once created; the only permitted mutation is deletion by the owner.
type StudyLogService interface {
	CreateLog(ctx context.Context, studentID string, req CreateStudyLogRequest) (*models.StudyLog, error)
	GetLogs(ctx context.Context, studentID string, filters repositories.StudyLogFilters) ([]*models.StudyLog, error)
	DeleteLog(ctx context.Context, logID uint, studentID string) error
}

type CreateStudyLogRequest struct {
	SubjectID       uint       `json:"subject_id" validate:"required"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,min=1"`
	Content         string     `json:"content" validate:"max=2000"`
	LoggedAt        *time.Time `json:"logged_at,omitempty"`
}

type studyLogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewStudyLogService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) StudyLogService {
	return &studyLogService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *studyLogService) CreateLog(ctx context.Context, studentID string, req CreateStudyLogRequest) (*models.StudyLog, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Subject().GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to verify subject: %w", err)
	}

	loggedAt := time.Now().UTC()
	if req.LoggedAt != nil {
		loggedAt = req.LoggedAt.UTC()
	}

	log := &models.StudyLog{
		StudentID:       studentID,
		SubjectID:       req.SubjectID,
		DurationMinutes: req.DurationMinutes,
		Content:         req.Content,
		LoggedAt:        loggedAt,
	}

	if err := s.repo.StudyLog().Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create study log: %w", err)
	}

	s.logger.Info("Created study log",
		"student_id", studentID,
		"subject_id", req.SubjectID,
		"duration_minutes", req.DurationMinutes)

	return log, nil
}

func (s *studyLogService) GetLogs(ctx context.Context, studentID string, filters repositories.StudyLogFilters) ([]*models.StudyLog, error) {
	return s.repo.StudyLog().GetByStudent(ctx, studentID, filters)
}

func (s *studyLogService) DeleteLog(ctx context.Context, logID uint, studentID string) error {
	log, err := s.repo.StudyLog().GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudyLogNotFound
		}
		return fmt.Errorf("failed to get study log: %w", err)
	}
	if log.StudentID != studentID {
		return NewPermissionError(studentID, "study_log", "delete", "log belongs to another student")
	}

	return s.repo.StudyLog().Delete(ctx, logID)
}
