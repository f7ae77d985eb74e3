package repositories

import (
	"context"
	"time"

	"github.com/classtrack/learning-service/internal/models"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	GetByStudent(ctx context.Context, studentID string, filters AssignmentFilters) ([]*models.Assignment, error)
	GetByStudentDueBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.Assignment, error)
	ListAll(ctx context.Context) ([]*models.Assignment, error)

	// Statistics
	GetCounts(ctx context.Context, studentID string) (*AssignmentCounts, error)

	DeleteByStudent(ctx context.Context, studentID string) error
}
