package events

import (
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents different types of notification events
type EventType string

const (
	// Assignment events
	EventAssignmentCreated   EventType = "assignment.created"
	EventAssignmentCompleted EventType = "assignment.completed"
	EventAssignmentOverdue   EventType = "assignment.overdue"

	// Grade events
	EventGradeRecorded EventType = "grade.recorded"

	// Goal events
	EventGoalAchieved EventType = "goal.achieved"

	// System events
	EventBulkNotification EventType = "system.bulk_notification"
)

const eventSource = "learning-service"

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Assignment notification event payloads

type AssignmentCreatedEvent struct {
	AssignmentID uint      `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	SubjectID    uint      `json:"subject_id"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
}

type AssignmentCompletedEvent struct {
	AssignmentID uint      `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Title        string    `json:"title"`
	CompletedAt  time.Time `json:"completed_at"`
	Late         bool      `json:"late"`
}

type AssignmentOverdueEvent struct {
	AssignmentID uint      `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
}

// Grade notification event payload

type GradeRecordedEvent struct {
	GradeID   uint      `json:"grade_id"`
	StudentID string    `json:"student_id"`
	SubjectID uint      `json:"subject_id"`
	TestName  string    `json:"test_name"`
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"max_score"`
	Percent   int       `json:"percent"`
	TakenAt   time.Time `json:"taken_at"`
}

// Goal notification event payload

type GoalAchievedEvent struct {
	GoalID        uint   `json:"goal_id"`
	StudentID     string `json:"student_id"`
	SubjectID     string `json:"subject_id"`
	Period        string `json:"period"`
	TargetMinutes int    `json:"target_minutes"`
	ActualMinutes int    `json:"actual_minutes"`
}

// System notification event payload

type BulkNotificationEvent struct {
	RecipientIDs []string                    `json:"recipient_ids"`
	Type         models.NotificationType     `json:"type"`
	Title        string                      `json:"title"`
	Message      string                      `json:"message"`
	Priority     models.NotificationPriority `json:"priority"`
	Link         *string                     `json:"link,omitempty"`
}

// Event factory functions

func NewAssignmentCreatedEvent(assignmentID uint, studentID string, subjectID uint, title string, dueDate time.Time) *NotificationEvent {
	return newEvent(EventAssignmentCreated, AssignmentCreatedEvent{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		SubjectID:    subjectID,
		Title:        title,
		DueDate:      dueDate,
	})
}

func NewAssignmentCompletedEvent(assignmentID uint, studentID, title string, completedAt time.Time, late bool) *NotificationEvent {
	return newEvent(EventAssignmentCompleted, AssignmentCompletedEvent{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Title:        title,
		CompletedAt:  completedAt,
		Late:         late,
	})
}

func NewGradeRecordedEvent(grade *models.Grade) *NotificationEvent {
	return newEvent(EventGradeRecorded, GradeRecordedEvent{
		GradeID:   grade.ID,
		StudentID: grade.StudentID,
		SubjectID: grade.SubjectID,
		TestName:  grade.TestName,
		Score:     grade.Score,
		MaxScore:  grade.MaxScore,
		Percent:   grade.Percent(),
		TakenAt:   grade.TakenAt,
	})
}

func NewGoalAchievedEvent(goal *models.StudyGoal, actualMinutes int) *NotificationEvent {
	return newEvent(EventGoalAchieved, GoalAchievedEvent{
		GoalID:        goal.ID,
		StudentID:     goal.StudentID,
		SubjectID:     goal.SubjectID,
		Period:        string(goal.Period),
		TargetMinutes: goal.TargetMinutes,
		ActualMinutes: actualMinutes,
	})
}

func NewBulkNotificationEvent(recipientIDs []string, notificationType models.NotificationType, title, message string, priority models.NotificationPriority, link *string) *NotificationEvent {
	return newEvent(EventBulkNotification, BulkNotificationEvent{
		RecipientIDs: recipientIDs,
		Type:         notificationType,
		Title:        title,
		Message:      message,
		Priority:     priority,
		Link:         link,
	})
}

func newEvent(eventType EventType, data interface{}) *NotificationEvent {
	return &NotificationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}
