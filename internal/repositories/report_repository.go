package repositories

import (
	"context"

	"github.com/classtrack/learning-service/internal/models"
)

// ReportRepository is append-only: reports are never updated once written.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)

	// Newest first
	GetByStudent(ctx context.Context, studentID string, limit int) ([]*models.Report, error)
	GetLatest(ctx context.Context, studentID string) (*models.Report, error)

	DeleteByStudent(ctx context.Context, studentID string) error
}
