package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/utils"
	"gorm.io/gorm"
)

// SubjectService manages the subject catalog.
type SubjectService interface {
	CreateSubject(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error)
	GetSubjects(ctx context.Context) ([]*models.Subject, error)
	DeleteSubject(ctx context.Context, id uint) error
}

type CreateSubjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type subjectService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewSubjectService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) SubjectService {
	return &subjectService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *subjectService) CreateSubject(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Subject().ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check subject name: %w", err)
	}
	if exists {
		return nil, ErrSubjectExists
	}

	subject := &models.Subject{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}

	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.logger.Info("Created subject", "subject_id", subject.ID, "name", subject.Name)
	return subject, nil
}

func (s *subjectService) GetSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.repo.Subject().List(ctx)
}

func (s *subjectService) DeleteSubject(ctx context.Context, id uint) error {
	if _, err := s.repo.Subject().GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}

	if err := s.repo.Subject().Delete(ctx, id); err != nil {
		// Foreign key references surface as a conflict, not an internal error.
		return ErrSubjectInUse
	}
	return nil
}
