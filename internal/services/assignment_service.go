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

// AssignmentService manages assignments and their completion lifecycle.
type AssignmentService interface {
	CreateAssignment(ctx context.Context, studentID string, req CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignments(ctx context.Context, studentID string, filters repositories.AssignmentFilters) ([]*models.Assignment, error)

	// CompleteAssignment marks an assignment done; past-due completion is
	// recorded as late.
	CompleteAssignment(ctx context.Context, assignmentID uint, studentID string) (*models.Assignment, error)

	DeleteAssignment(ctx context.Context, assignmentID uint, studentID string) error
	GetCounts(ctx context.Context, studentID string) (*repositories.AssignmentCounts, error)
}

type CreateAssignmentRequest struct {
	SubjectID   uint      `json:"subject_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

type assignmentService struct {
	repo      repositories.Repository
	notifier  NotificationService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewAssignmentService(repo repositories.Repository, notifier NotificationService, logger *slog.Logger, validator *utils.Validator) AssignmentService {
	return &assignmentService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		validator: validator,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, studentID string, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Subject().GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to verify subject: %w", err)
	}

	assignment := &models.Assignment{
		StudentID:   studentID,
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.UTC(),
		Status:      models.AssignmentPending,
	}

	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := s.notifier.NotifyAssignmentCreated(ctx, assignment); err != nil {
		// Notification failure must not fail the create.
		s.logger.Warn("Failed to send assignment created notification",
			"assignment_id", assignment.ID, "error", err)
	}

	return assignment, nil
}

func (s *assignmentService) GetAssignments(ctx context.Context, studentID string, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	return s.repo.Assignment().GetByStudent(ctx, studentID, filters)
}

func (s *assignmentService) CompleteAssignment(ctx context.Context, assignmentID uint, studentID string) (*models.Assignment, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment.StudentID != studentID {
		return nil, NewPermissionError(studentID, "assignment", "complete", "assignment belongs to another student")
	}
	if assignment.Status == models.AssignmentCompleted || assignment.Status == models.AssignmentLate {
		return nil, ErrAssignmentCompleted
	}

	now := time.Now().UTC()
	assignment.CompletedAt = &now
	assignment.Status = models.AssignmentCompleted
	late := now.After(assignment.DueDate)
	if late {
		assignment.Status = models.AssignmentLate
	}

	if err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	if err := s.notifier.NotifyAssignmentCompleted(ctx, assignment, late); err != nil {
		s.logger.Warn("Failed to send assignment completed notification",
			"assignment_id", assignment.ID, "error", err)
	}

	return assignment, nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, assignmentID uint, studentID string) error {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment.StudentID != studentID {
		return NewPermissionError(studentID, "assignment", "delete", "assignment belongs to another student")
	}

	return s.repo.Assignment().Delete(ctx, assignmentID)
}

func (s *assignmentService) GetCounts(ctx context.Context, studentID string) (*repositories.AssignmentCounts, error) {
	return s.repo.Assignment().GetCounts(ctx, studentID)
}
