package repositories

import (
	"context"

	"github.com/classtrack/learning-service/internal/models"
)

// UserRepository covers account storage for all three roles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, id string) error

	// Query operations
	List(ctx context.Context, filters AccountFilters) ([]*models.User, int64, error)
	GetStudents(ctx context.Context) ([]*models.User, error)
	GetParentsOfChild(ctx context.Context, childID string) ([]*models.User, error)
	Search(ctx context.Context, query string) ([]*models.User, error)

	// Validation helpers
	ExistsByID(ctx context.Context, id string) (bool, error)

	// UnlinkChild clears child_id on every parent pointing at the student.
	UnlinkChild(ctx context.Context, childID string) error
}
