package repositories

import (
	"context"

	"github.com/classtrack/learning-service/internal/models"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	Delete(ctx context.Context, id uint) error

	ExistsByName(ctx context.Context, name string) (bool, error)
}
