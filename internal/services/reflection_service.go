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

// ReflectionService manages daily reflections. One reflection exists per
// (student, date); saving again the same day replaces the entry.
type ReflectionService interface {
	SaveReflection(ctx context.Context, studentID string, req SaveReflectionRequest) (*models.DailyReflection, error)
	GetReflections(ctx context.Context, studentID string) ([]*models.DailyReflection, error)
	GetReflectionByDate(ctx context.Context, studentID string, date time.Time) (*models.DailyReflection, error)
	DeleteReflection(ctx context.Context, reflectionID uint, studentID string) error
}

type SaveReflectionRequest struct {
	Date       *time.Time `json:"date,omitempty"`
	Content    string     `json:"content" validate:"required,max=2000"`
	SelfRating int        `json:"self_rating" validate:"required,min=1,max=5"`
	Mood       *string    `json:"mood,omitempty" validate:"omitempty,max=32"`
}

type reflectionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewReflectionService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) ReflectionService {
	return &reflectionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *reflectionService) SaveReflection(ctx context.Context, studentID string, req SaveReflectionRequest) (*models.DailyReflection, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	date = date.Truncate(24 * time.Hour)

	reflection := &models.DailyReflection{
		StudentID:      studentID,
		ReflectionDate: date,
		Content:        req.Content,
		SelfRating:     req.SelfRating,
		Mood:           req.Mood,
	}

	if err := s.repo.Reflection().Upsert(ctx, reflection); err != nil {
		return nil, fmt.Errorf("failed to save reflection: %w", err)
	}

	s.logger.Info("Saved daily reflection",
		"student_id", studentID,
		"date", date.Format("2006-01-02"),
		"self_rating", req.SelfRating)

	return reflection, nil
}

func (s *reflectionService) GetReflections(ctx context.Context, studentID string) ([]*models.DailyReflection, error) {
	return s.repo.Reflection().GetByStudent(ctx, studentID)
}

func (s *reflectionService) GetReflectionByDate(ctx context.Context, studentID string, date time.Time) (*models.DailyReflection, error) {
	reflection, err := s.repo.Reflection().GetByStudentAndDate(ctx, studentID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReflectionNotFound
		}
		return nil, fmt.Errorf("failed to get reflection: %w", err)
	}
	return reflection, nil
}

func (s *reflectionService) DeleteReflection(ctx context.Context, reflectionID uint, studentID string) error {
	reflection, err := s.repo.Reflection().GetByID(ctx, reflectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReflectionNotFound
		}
		return fmt.Errorf("failed to get reflection: %w", err)
	}
	if reflection.StudentID != studentID {
		return NewPermissionError(studentID, "daily_reflection", "delete", "reflection belongs to another student")
	}

	return s.repo.Reflection().Delete(ctx, reflectionID)
}
