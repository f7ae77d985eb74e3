package models

import "time"

type Subject struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Category    *string `json:"category,omitempty" gorm:"size:50"`
	Description *string `json:"description,omitempty" gorm:"type:text" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at"`
}

func (Subject) TableName() string {
	return "subjects"
}
