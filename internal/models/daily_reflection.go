package models

import "time"

// DailyReflection is a student's end-of-day note with a 1-5 self rating.
// One row per (student, date); writes go through an atomic upsert.
type DailyReflection struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	StudentID      string    `json:"student_id" gorm:"not null;size:64;uniqueIndex:idx_reflection_key" validate:"required"`
	ReflectionDate time.Time `json:"reflection_date" gorm:"type:date;not null;uniqueIndex:idx_reflection_key" validate:"required"`
	Content        string    `json:"content" gorm:"type:text;not null" validate:"required,max=2000"`
	SelfRating     int       `json:"self_rating" gorm:"not null" validate:"required,min=1,max=5"`
	Mood           *string   `json:"mood,omitempty" gorm:"size:32"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DailyReflection) TableName() string {
	return "daily_reflections"
}
