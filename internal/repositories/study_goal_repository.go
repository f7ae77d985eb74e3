package repositories

import (
	"context"

	"github.com/classtrack/learning-service/internal/models"
)

type StudyGoalRepository interface {
	// Upsert inserts or updates on the (student, subject, period) key in a
	// single conditional statement, never check-then-act.
	Upsert(ctx context.Context, goal *models.StudyGoal) error

	GetByID(ctx context.Context, id uint) (*models.StudyGoal, error)
	GetByStudent(ctx context.Context, studentID string) ([]*models.StudyGoal, error)
	ListAll(ctx context.Context) ([]*models.StudyGoal, error)
	Delete(ctx context.Context, id uint) error

	IsOwner(ctx context.Context, id uint, studentID string) (bool, error)

	DeleteByStudent(ctx context.Context, studentID string) error
}
