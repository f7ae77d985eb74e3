package repositories

import (
	"context"
	"time"

	"github.com/classtrack/learning-service/internal/models"
)

type StudyLogRepository interface {
	Create(ctx context.Context, log *models.StudyLog) error
	GetByID(ctx context.Context, id uint) (*models.StudyLog, error)
	Delete(ctx context.Context, id uint) error

	// Query operations
	GetByStudent(ctx context.Context, studentID string, filters StudyLogFilters) ([]*models.StudyLog, error)
	GetByStudentSince(ctx context.Context, studentID string, since time.Time) ([]*models.StudyLog, error)
	ListAll(ctx context.Context) ([]*models.StudyLog, error)

	// Ownership
	IsOwner(ctx context.Context, id uint, studentID string) (bool, error)

	// Statistics
	GetStudyTotals(ctx context.Context, studentID string, since time.Time) (*StudyTotals, error)

	DeleteByStudent(ctx context.Context, studentID string) error
}
