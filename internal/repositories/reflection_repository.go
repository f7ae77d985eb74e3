package repositories

import (
	"context"
	"time"

	"github.com/classtrack/learning-service/internal/models"
)

type ReflectionRepository interface {
	// Upsert inserts or updates on the (student, reflection_date) key in a
	// single conditional statement.
	Upsert(ctx context.Context, reflection *models.DailyReflection) error

	GetByID(ctx context.Context, id uint) (*models.DailyReflection, error)
	GetByStudent(ctx context.Context, studentID string) ([]*models.DailyReflection, error)
	GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.DailyReflection, error)
	GetByStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.DailyReflection, error)
	GetRecent(ctx context.Context, limit int) ([]*models.DailyReflection, error)
	ListAll(ctx context.Context) ([]*models.DailyReflection, error)
	Delete(ctx context.Context, id uint) error

	IsOwner(ctx context.Context, id uint, studentID string) (bool, error)

	DeleteByStudent(ctx context.Context, studentID string) error
}
