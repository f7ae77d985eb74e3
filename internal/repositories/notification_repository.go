package repositories

import (
	"context"

	"github.com/classtrack/learning-service/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)

	// Newest first, bounded
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)

	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, userID string) error

	DeleteByUser(ctx context.Context, userID string) error
}
