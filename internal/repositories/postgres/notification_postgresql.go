package postgres

import (
	"context"
	"fmt"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := n.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	query := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []*models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (n *NotificationPostgreSQL) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id uint) error {
	result := n.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, userID string) error {
	err := n.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) DeleteByUser(ctx context.Context, userID string) error {
	if err := n.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("failed to delete notifications for user: %w", err)
	}
	return nil
}
