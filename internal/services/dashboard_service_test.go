package services

import (
	"context"
	"testing"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func newDashboardService(repo *fakeRepository) DashboardService {
	stats := NewStatisticsService(repo, testLogger())
	return NewDashboardService(repo, stats, testLogger())
}

func TestGetStudentDashboard(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("AssemblesAllSections", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s10101": {ID: "s10101", Name: "Kim Minji", Role: models.RoleStudent},
		}
		repo.studyLog.logs = []*models.StudyLog{
			{StudentID: "s10101", SubjectID: 1, DurationMinutes: 30, LoggedAt: now.Add(-1 * time.Hour)},
		}
		repo.assignment.assignments = []*models.Assignment{
			{ID: 1, StudentID: "s10101", Title: "Due soon", Status: models.AssignmentPending, DueDate: now.AddDate(0, 0, 2)},
			{ID: 2, StudentID: "s10101", Title: "Far away", Status: models.AssignmentPending, DueDate: now.AddDate(0, 0, 20)},
			{ID: 3, StudentID: "s10101", Title: "Done", Status: models.AssignmentCompleted, DueDate: now.AddDate(0, 0, 3)},
		}
		repo.notification.notifications = []*models.Notification{
			{ID: 1, UserID: "s10101", Title: "A", Type: models.NotificationSystem},
			{ID: 2, UserID: "s10101", Title: "B", Type: models.NotificationSystem, Read: true},
		}
		repo.studyGoal.goals = []*models.StudyGoal{
			{ID: 1, StudentID: "s10101", SubjectID: models.GoalSubjectAll, Period: models.GoalDaily, TargetMinutes: 60},
		}
		repo.reflection.reflections = []*models.DailyReflection{
			{ID: 1, StudentID: "s10101", ReflectionDate: now, Content: "today", SelfRating: 4},
		}
		service := newDashboardService(repo)

		dashboard, err := service.GetStudentDashboard(ctx, "s10101")

		assert.NoError(t, err)
		assert.Equal(t, "Kim Minji", dashboard.Name)
		assert.Equal(t, 30, dashboard.TodayMinutes)
		assert.Equal(t, 30, dashboard.WeekMinutes)
		assert.Equal(t, 2, dashboard.PendingCount)
		assert.Equal(t, int64(1), dashboard.UnreadCount)
		assert.True(t, dashboard.TodayReflected)

		assert.Len(t, dashboard.GoalProgress, 1)
		assert.Equal(t, 50, dashboard.GoalProgress[0].Percent)

		// Only the pending assignment inside the 7-day horizon.
		assert.Len(t, dashboard.DueSoon, 1)
		assert.Equal(t, uint(1), dashboard.DueSoon[0].ID)
	})

	t.Run("EmptyStudent", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s10101": {ID: "s10101", Name: "Kim Minji", Role: models.RoleStudent},
		}
		service := newDashboardService(repo)

		dashboard, err := service.GetStudentDashboard(ctx, "s10101")

		assert.NoError(t, err)
		assert.Equal(t, 0, dashboard.TodayMinutes)
		assert.False(t, dashboard.TodayReflected)
		assert.Nil(t, dashboard.LatestReport)
		assert.Empty(t, dashboard.DueSoon)
	})

	t.Run("UnknownStudent", func(t *testing.T) {
		service := newDashboardService(newFakeRepository())

		_, err := service.GetStudentDashboard(ctx, "ghost")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestGetChildSummary(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	repo := newFakeRepository()
	repo.user.users = map[string]*models.User{
		"s10101": {ID: "s10101", Name: "Kim Minji", Role: models.RoleStudent},
	}
	repo.studyLog.logs = []*models.StudyLog{
		{StudentID: "s10101", SubjectID: 1, DurationMinutes: 40, LoggedAt: now.Add(-2 * time.Hour)},
	}
	repo.grade.grades = []*models.Grade{
		{ID: 1, StudentID: "s10101", SubjectID: 1, TestName: "Quiz", Score: 9, MaxScore: 10, TakenAt: now.AddDate(0, 0, -1)},
	}
	repo.reflection.reflections = []*models.DailyReflection{
		{ID: 1, StudentID: "s10101", ReflectionDate: now.AddDate(0, 0, -2), Content: "ok", SelfRating: 3},
	}
	service := newDashboardService(repo)

	summary, err := service.GetChildSummary(ctx, "s10101")

	assert.NoError(t, err)
	assert.Equal(t, "Kim Minji", summary.Student.Name)
	assert.Equal(t, 40, summary.WeekMinutes)
	assert.Equal(t, 40, summary.Snapshot.TotalMinutes)
	assert.Len(t, summary.RecentGrades, 1)
	assert.Len(t, summary.Reflections, 1)
	assert.NotNil(t, summary.Assignments)
}
