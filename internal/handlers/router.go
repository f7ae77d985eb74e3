package handlers

import (
	"net/http"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	studyLogHandler     *StudyLogHandler
	assignmentHandler   *AssignmentHandler
	gradeHandler        *GradeHandler
	subjectHandler      *SubjectHandler
	goalHandler         *GoalHandler
	reflectionHandler   *ReflectionHandler
	reportHandler       *ReportHandler
	notificationHandler *NotificationHandler
	dashboardHandler    *DashboardHandler
	adminHandler        *AdminHandler

	authService services.AuthService
}

type RouterConfig struct {
	SessionTTLSeconds int
	SecureCookies     bool
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	config RouterConfig,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), config.SessionTTLSeconds, config.SecureCookies, logger),
		studyLogHandler:     NewStudyLogHandler(serviceManager.StudyLog(), logger),
		assignmentHandler:   NewAssignmentHandler(serviceManager.Assignment(), logger),
		gradeHandler:        NewGradeHandler(serviceManager.Grade(), logger),
		subjectHandler:      NewSubjectHandler(serviceManager.Subject(), logger),
		goalHandler:         NewGoalHandler(serviceManager.Goal(), logger),
		reflectionHandler:   NewReflectionHandler(serviceManager.Reflection(), logger),
		reportHandler:       NewReportHandler(serviceManager.Report(), serviceManager.Statistics(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		adminHandler:        NewAdminHandler(serviceManager.Account(), serviceManager.ImportExport(), logger),
		authService:         serviceManager.Auth(),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	// Public auth routes
	v1.POST("/auth/login", hm.authHandler.Login)
	v1.POST("/auth/logout", hm.authHandler.Logout)

	// Everything below requires a session
	authed := v1.Group("")
	authed.Use(RequireSession(hm.authService))
	{
		authed.GET("/auth/me", hm.authHandler.Me)
		authed.PUT("/auth/password", hm.authHandler.ChangePassword)

		// Notifications are available to every role
		notifications := authed.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.GET("/unread", hm.notificationHandler.UnreadCount)
			notifications.PUT("/:id/read", hm.notificationHandler.MarkRead)
			notifications.PUT("/read-all", hm.notificationHandler.MarkAllRead)
		}

		// Subject catalog is readable by every role
		authed.GET("/subjects", hm.subjectHandler.ListSubjects)

		// Student routes
		student := authed.Group("")
		student.Use(RequireRole(models.RoleStudent))
		{
			student.GET("/dashboard", hm.dashboardHandler.GetDashboard)

			logs := student.Group("/study-logs")
			{
				logs.POST("", hm.studyLogHandler.CreateLog)
				logs.GET("", hm.studyLogHandler.ListLogs)
				logs.DELETE("/:id", hm.studyLogHandler.DeleteLog)
			}

			assignments := student.Group("/assignments")
			{
				assignments.POST("", hm.assignmentHandler.CreateAssignment)
				assignments.GET("", hm.assignmentHandler.ListAssignments)
				assignments.PUT("/:id/complete", hm.assignmentHandler.CompleteAssignment)
				assignments.DELETE("/:id", hm.assignmentHandler.DeleteAssignment)
			}

			student.GET("/grades", hm.gradeHandler.ListMyGrades)

			goals := student.Group("/goals")
			{
				goals.PUT("", hm.goalHandler.SetGoal)
				goals.GET("", hm.goalHandler.ListGoals)
				goals.DELETE("/:id", hm.goalHandler.DeleteGoal)
			}

			reflections := student.Group("/reflections")
			{
				reflections.PUT("", hm.reflectionHandler.SaveReflection)
				reflections.GET("", hm.reflectionHandler.ListReflections)
				reflections.DELETE("/:id", hm.reflectionHandler.DeleteReflection)
			}

			reports := student.Group("/reports")
			{
				reports.POST("", hm.reportHandler.GenerateReport)
				reports.GET("", hm.reportHandler.ListReports)
				reports.GET("/latest", hm.reportHandler.LatestReport)
			}

			student.GET("/statistics", hm.reportHandler.GetStatistics)
		}

		// Parent routes
		parent := authed.Group("/parent")
		parent.Use(RequireRole(models.RoleParent))
		{
			parent.GET("/child", hm.dashboardHandler.GetChildSummary)
		}

		// Admin routes
		admin := authed.Group("/admin")
		admin.Use(RequireRole(models.RoleAdmin))
		{
			accounts := admin.Group("/accounts")
			{
				accounts.POST("/students", hm.adminHandler.CreateStudent)
				accounts.POST("/students/bulk", hm.adminHandler.BulkCreateStudents)
				accounts.POST("/parents", hm.adminHandler.CreateParent)
				accounts.POST("/admins", hm.adminHandler.CreateAdmin)
				accounts.GET("", hm.adminHandler.ListAccounts)
				accounts.GET("/:id", hm.adminHandler.GetAccount)
				accounts.PUT("/:id", hm.adminHandler.UpdateAccount)
				accounts.POST("/:id/reset-password", hm.adminHandler.ResetPassword)
				accounts.DELETE("/:id", hm.adminHandler.DeleteAccount)
			}

			subjects := admin.Group("/subjects")
			{
				subjects.POST("", hm.subjectHandler.CreateSubject)
				subjects.DELETE("/:id", hm.subjectHandler.DeleteSubject)
			}

			admin.POST("/notifications/broadcast", hm.notificationHandler.Broadcast)

			grades := admin.Group("/grades")
			{
				grades.POST("", hm.gradeHandler.RecordGrade)
				grades.DELETE("/:id", hm.gradeHandler.DeleteGrade)
			}
			admin.GET("/students/:student_id/grades", hm.gradeHandler.ListStudentGrades)

			data := admin.Group("/data")
			{
				data.POST("/import/students", hm.adminHandler.ImportStudents)
				data.GET("/export/study-logs/:student_id", hm.adminHandler.ExportStudyLogs)
				data.GET("/export/grades/:student_id", hm.adminHandler.ExportGrades)
				data.GET("/export/students", hm.adminHandler.ExportStudentSummary)
			}
		}
	}
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
