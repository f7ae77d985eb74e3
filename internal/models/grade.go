package models

import (
	"math"
	"time"
)

type Grade struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	StudentID string  `json:"student_id" gorm:"not null;size:64;index" validate:"required"`
	SubjectID uint    `json:"subject_id" gorm:"not null;index" validate:"required"`
	TestName  string  `json:"test_name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Score     float64 `json:"score" gorm:"not null" validate:"min=0"`
	MaxScore  float64 `json:"max_score" gorm:"not null" validate:"required,gt=0"`

	TakenAt  time.Time `json:"taken_at" gorm:"not null;index" validate:"required"`
	Feedback *string   `json:"feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (Grade) TableName() string {
	return "grades"
}

// Percent returns the score as a rounded percentage. A zero MaxScore yields
// 0 rather than a division by zero; such rows are rejected at creation.
func (g *Grade) Percent() int {
	if g.MaxScore == 0 {
		return 0
	}
	return int(math.Round(g.Score / g.MaxScore * 100))
}
