package models

import "time"

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentLate      AssignmentStatus = "late"
)

type Assignment struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	StudentID   string           `json:"student_id" gorm:"not null;size:64;index" validate:"required"`
	SubjectID   uint             `json:"subject_id" gorm:"not null;index" validate:"required"`
	Title       string           `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description string           `json:"description" gorm:"type:text" validate:"max=2000"`
	DueDate     time.Time        `json:"due_date" gorm:"not null;index" validate:"required"`
	Status      AssignmentStatus `json:"status" gorm:"default:pending;size:16;index" validate:"omitempty,assignment_status"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Feedback    *string    `json:"feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (Assignment) TableName() string {
	return "assignments"
}
