package repositories

import (
	"time"

	"github.com/classtrack/learning-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type StudyLogFilters struct {
	SubjectID *uint      `json:"subject_id"`
	From      *time.Time `json:"from"`
	To        *time.Time `json:"to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type AssignmentFilters struct {
	SubjectID *uint                    `json:"subject_id"`
	Status    *models.AssignmentStatus `json:"status"`
	DueFrom   *time.Time               `json:"due_from"`
	DueTo     *time.Time               `json:"due_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

type GradeFilters struct {
	SubjectID *uint      `json:"subject_id"`
	From      *time.Time `json:"from"`
	To        *time.Time `json:"to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

type AccountFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches id or name
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// StudyTotals is the raw per-student accumulation the dashboard reads
// without paying for a full snapshot.
type StudyTotals struct {
	TotalMinutes int            `json:"total_minutes"`
	LogCount     int            `json:"log_count"`
	BySubject    map[uint]int   `json:"by_subject"`
	LastLoggedAt *time.Time     `json:"last_logged_at"`
}

type AssignmentCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Late      int `json:"late"`
}
