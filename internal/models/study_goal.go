package models

import "time"

type GoalPeriod string

const (
	GoalDaily   GoalPeriod = "daily"
	GoalWeekly  GoalPeriod = "weekly"
	GoalMonthly GoalPeriod = "monthly"
)

// GoalSubjectAll marks a goal that targets total study time rather than a
// single subject.
const GoalSubjectAll = "all"

// StudyGoal is a student's declared target for a recurring period. At most
// one row exists per (student, subject, period); writes go through an
// atomic upsert on that key.
type StudyGoal struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	StudentID     string     `json:"student_id" gorm:"not null;size:64;uniqueIndex:idx_goal_key" validate:"required"`
	SubjectID     string     `json:"subject_id" gorm:"not null;size:64;uniqueIndex:idx_goal_key" validate:"required"`
	TargetMinutes int        `json:"target_minutes" gorm:"not null" validate:"required,min=1"`
	Period        GoalPeriod `json:"period" gorm:"not null;size:16;uniqueIndex:idx_goal_key" validate:"required,goal_period"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudyGoal) TableName() string {
	return "study_goals"
}
