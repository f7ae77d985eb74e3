package models

import "time"

type NotificationType string
type NotificationPriority int

const (
	NotificationAssignment NotificationType = "assignment"
	NotificationGrade      NotificationType = "grade"
	NotificationGoal       NotificationType = "goal"
	NotificationSystem     NotificationType = "system"
	NotificationReflection NotificationType = "reflection"

	PriorityLow    NotificationPriority = 1
	PriorityNormal NotificationPriority = 2
	PriorityHigh   NotificationPriority = 3
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  string           `json:"user_id" gorm:"not null;size:64;index" validate:"required"`
	Title   string           `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Message string           `json:"message" gorm:"type:text" validate:"max=2000"`
	Type    NotificationType `json:"type" gorm:"not null;size:16;index" validate:"required,notification_type"`

	Priority NotificationPriority `json:"priority" gorm:"default:2"`
	Link     *string              `json:"link,omitempty" gorm:"size:255"`
	Read     bool                 `json:"read" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
