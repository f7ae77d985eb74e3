package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
	RoleParent  UserRole = "parent"
)

// Valid reports whether the role is one of the closed set. Authorization
// boundaries must treat anything else as a rejected session.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleParent:
		return true
	}
	return false
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:64"`
	Name         string   `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Role         UserRole `json:"role" gorm:"not null;size:16;index" validate:"required,user_role"`
	PasswordHash string   `json:"-" gorm:"column:password;not null;size:100"`

	// Student identification (grade / class / attendance number)
	Grade  *int `json:"grade,omitempty" validate:"omitempty,min=1,max=12"`
	Class  *int `json:"class,omitempty" validate:"omitempty,min=1"`
	Number *int `json:"number,omitempty" validate:"omitempty,min=1"`

	// ChildID links a parent account to the student it observes.
	ChildID *string `json:"child_id,omitempty" gorm:"size:64;index"`

	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// IsStudent reports whether the user can own study data.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
