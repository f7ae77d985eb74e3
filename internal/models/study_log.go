package models

import "time"

// StudyLog is a single study session recorded by a student. Rows are
// immutable once created; the only permitted mutation is deletion by the
// owning student.
type StudyLog struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	StudentID       string `json:"student_id" gorm:"not null;size:64;index" validate:"required"`
	SubjectID       uint   `json:"subject_id" gorm:"not null;index" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" gorm:"not null" validate:"required,min=1"`
	Content         string `json:"content" gorm:"type:text" validate:"max=2000"`

	// LoggedAt is the moment the session happened; all statistics buckets
	// (day, week, month, hour, weekday) derive from it in UTC.
	LoggedAt  time.Time `json:"logged_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Student *User    `json:"-" gorm:"foreignKey:StudentID"`
}

func (StudyLog) TableName() string {
	return "study_logs"
}
