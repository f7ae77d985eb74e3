package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/classtrack/learning-service/internal/events"
	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

// NotificationService persists in-app notifications and emits the
// matching events to the message broker. A notification reaches the
// student and every parent linked to them.
type NotificationService interface {
	// Domain notifications
	NotifyAssignmentCreated(ctx context.Context, assignment *models.Assignment) error
	NotifyAssignmentCompleted(ctx context.Context, assignment *models.Assignment, late bool) error
	NotifyGradeRecorded(ctx context.Context, grade *models.Grade) error
	NotifyGoalAchieved(ctx context.Context, goal *models.StudyGoal, actualMinutes int) error

	// System notifications
	SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error

	// Notification management
	GetUserNotifications(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, notificationID uint, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

type NotificationRequest struct {
	Type     models.NotificationType     `json:"type" validate:"required,notification_type"`
	Title    string                      `json:"title" validate:"required,max=200"`
	Message  string                      `json:"message" validate:"max=2000"`
	Priority models.NotificationPriority `json:"priority" validate:"omitempty,min=1,max=3"`
	Link     *string                     `json:"link,omitempty"`
}

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ===== DOMAIN NOTIFICATIONS =====

func (s *notificationService) NotifyAssignmentCreated(ctx context.Context, assignment *models.Assignment) error {
	link := fmt.Sprintf("/assignments/%d", assignment.ID)
	if err := s.fanOut(ctx, assignment.StudentID, &NotificationRequest{
		Type:     models.NotificationAssignment,
		Title:    "New Assignment",
		Message:  fmt.Sprintf("Assignment '%s' is due %s", assignment.Title, assignment.DueDate.Format("2006-01-02")),
		Priority: models.PriorityNormal,
		Link:     &link,
	}); err != nil {
		return err
	}

	return s.publish(ctx, events.NewAssignmentCreatedEvent(
		assignment.ID, assignment.StudentID, assignment.SubjectID, assignment.Title, assignment.DueDate))
}

func (s *notificationService) NotifyAssignmentCompleted(ctx context.Context, assignment *models.Assignment, late bool) error {
	title := "Assignment Completed"
	priority := models.PriorityLow
	if late {
		title = "Assignment Completed Late"
		priority = models.PriorityNormal
	}

	link := fmt.Sprintf("/assignments/%d", assignment.ID)
	if err := s.fanOut(ctx, assignment.StudentID, &NotificationRequest{
		Type:     models.NotificationAssignment,
		Title:    title,
		Message:  fmt.Sprintf("Assignment '%s' was marked complete", assignment.Title),
		Priority: priority,
		Link:     &link,
	}); err != nil {
		return err
	}

	completedAt := assignment.DueDate
	if assignment.CompletedAt != nil {
		completedAt = *assignment.CompletedAt
	}
	return s.publish(ctx, events.NewAssignmentCompletedEvent(
		assignment.ID, assignment.StudentID, assignment.Title, completedAt, late))
}

func (s *notificationService) NotifyGradeRecorded(ctx context.Context, grade *models.Grade) error {
	link := fmt.Sprintf("/grades/%d", grade.ID)
	if err := s.fanOut(ctx, grade.StudentID, &NotificationRequest{
		Type:     models.NotificationGrade,
		Title:    "New Grade Recorded",
		Message:  fmt.Sprintf("'%s' scored %d%%", grade.TestName, grade.Percent()),
		Priority: models.PriorityNormal,
		Link:     &link,
	}); err != nil {
		return err
	}

	return s.publish(ctx, events.NewGradeRecordedEvent(grade))
}

func (s *notificationService) NotifyGoalAchieved(ctx context.Context, goal *models.StudyGoal, actualMinutes int) error {
	if err := s.fanOut(ctx, goal.StudentID, &NotificationRequest{
		Type:     models.NotificationGoal,
		Title:    "Study Goal Achieved",
		Message:  fmt.Sprintf("Reached %d of %d target minutes (%s)", actualMinutes, goal.TargetMinutes, goal.Period),
		Priority: models.PriorityNormal,
	}); err != nil {
		return err
	}

	return s.publish(ctx, events.NewGoalAchievedEvent(goal, actualMinutes))
}

// ===== SYSTEM NOTIFICATIONS =====

func (s *notificationService) SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error {
	for _, userID := range userIDs {
		if err := s.store(ctx, userID, req); err != nil {
			return fmt.Errorf("failed to store bulk notification for %s: %w", userID, err)
		}
	}

	return s.publish(ctx, events.NewBulkNotificationEvent(
		userIDs, req.Type, req.Title, req.Message, req.Priority, req.Link))
}

// ===== NOTIFICATION MANAGEMENT =====

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	return s.repo.Notification().GetByUser(ctx, userID, limit)
}

func (s *notificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification().CountUnread(ctx, userID)
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, notificationID uint, userID string) error {
	notification, err := s.repo.Notification().GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification.UserID != userID {
		return NewPermissionError(userID, "notification", "mark_read", "notification belongs to another user")
	}

	return s.repo.Notification().MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return s.repo.Notification().MarkAllRead(ctx, userID)
}

// ===== HELPERS =====

// fanOut stores the notification for the student and every linked parent.
func (s *notificationService) fanOut(ctx context.Context, studentID string, req *NotificationRequest) error {
	if err := s.store(ctx, studentID, req); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	parents, err := s.repo.User().GetParentsOfChild(ctx, studentID)
	if err != nil {
		s.logger.Warn("Failed to resolve parents for notification fan-out",
			"student_id", studentID, "error", err)
		return nil
	}
	for _, parent := range parents {
		if err := s.store(ctx, parent.ID, req); err != nil {
			s.logger.Warn("Failed to store parent notification",
				"parent_id", parent.ID, "error", err)
		}
	}
	return nil
}

func (s *notificationService) store(ctx context.Context, userID string, req *NotificationRequest) error {
	priority := req.Priority
	if priority == 0 {
		priority = models.PriorityNormal
	}

	return s.repo.Notification().Create(ctx, &models.Notification{
		UserID:   userID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Priority: priority,
		Link:     req.Link,
	})
}

func (s *notificationService) publish(ctx context.Context, event *events.NotificationEvent) error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		// Broker failures are logged but never bubble into the request path.
		s.logger.Error("Failed to publish notification event",
			"event_type", event.Type, "error", err)
	}
	return nil
}
