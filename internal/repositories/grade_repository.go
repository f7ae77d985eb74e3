package repositories

import (
	"context"
	"time"

	"github.com/classtrack/learning-service/internal/models"
)

type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id uint) (*models.Grade, error)
	Delete(ctx context.Context, id uint) error

	// Query operations
	GetByStudent(ctx context.Context, studentID string, filters GradeFilters) ([]*models.Grade, error)
	GetByStudentTakenBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.Grade, error)
	ListAll(ctx context.Context) ([]*models.Grade, error)

	DeleteByStudent(ctx context.Context, studentID string) error
}
