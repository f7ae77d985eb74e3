package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReportPeriod string

const (
	ReportWeekly  ReportPeriod = "weekly"
	ReportMonthly ReportPeriod = "monthly"
)

// Report is a persisted snapshot of a student's trailing window. Rows are
// append-only; the newest row per student is treated as current.
type Report struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	StudentID string       `json:"student_id" gorm:"not null;size:64;index" validate:"required"`
	Period    ReportPeriod `json:"period" gorm:"not null;size:16" validate:"required,oneof=weekly monthly"`
	StartDate time.Time    `json:"start_date" gorm:"not null"`
	EndDate   time.Time    `json:"end_date" gorm:"not null"`

	TotalStudyMinutes int                                `json:"total_study_minutes" gorm:"not null"`
	SubjectStudyTime  datatypes.JSONType[map[string]int] `json:"subject_study_time" gorm:"type:jsonb"`

	CompletedAssignments int     `json:"completed_assignments"`
	TotalAssignments     int     `json:"total_assignments"`
	AverageGradePercent  float64 `json:"average_grade_percent"`

	AverageSelfRating float64 `json:"average_self_rating"`
	ReflectionSummary string  `json:"reflection_summary" gorm:"type:text"`
	ReflectionCount   int     `json:"reflection_count"`

	CreatedAt time.Time `json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}

// WindowDays is the trailing window length backing each period.
func (p ReportPeriod) WindowDays() int {
	if p == ReportMonthly {
		return 30
	}
	return 7
}
