package services

import (
	"log/slog"

	"github.com/classtrack/learning-service/internal/cache"
	"github.com/classtrack/learning-service/internal/events"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/utils"
)

// ServiceManager wires every service behind one handle.
type ServiceManager interface {
	Auth() AuthService
	Account() AccountService
	Subject() SubjectService
	StudyLog() StudyLogService
	Assignment() AssignmentService
	Grade() GradeService
	Goal() GoalService
	Reflection() ReflectionService
	Statistics() StatisticsService
	Report() ReportService
	Dashboard() DashboardService
	Notification() NotificationService
	ImportExport() ImportExportService
}

type serviceManager struct {
	auth         AuthService
	account      AccountService
	subject      SubjectService
	studyLog     StudyLogService
	assignment   AssignmentService
	grade        GradeService
	goal         GoalService
	reflection   ReflectionService
	statistics   StatisticsService
	report       ReportService
	dashboard    DashboardService
	notification NotificationService
	importExport ImportExportService
}

func NewServiceManager(
	repo repositories.Repository,
	sessions cache.SessionStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) ServiceManager {
	statistics := NewStatisticsService(repo, logger)
	notification := NewNotificationService(repo, publisher, logger)
	account := NewAccountService(repo, logger, validator)

	return &serviceManager{
		auth:         NewAuthService(repo, sessions, logger),
		account:      account,
		subject:      NewSubjectService(repo, logger, validator),
		studyLog:     NewStudyLogService(repo, logger, validator),
		assignment:   NewAssignmentService(repo, notification, logger, validator),
		grade:        NewGradeService(repo, notification, logger, validator),
		goal:         NewGoalService(repo, statistics, logger, validator),
		reflection:   NewReflectionService(repo, logger, validator),
		statistics:   statistics,
		report:       NewReportService(repo, statistics, logger),
		dashboard:    NewDashboardService(repo, statistics, logger),
		notification: notification,
		importExport: NewImportExportService(repo, account, logger, validator),
	}
}

func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) Account() AccountService           { return m.account }
func (m *serviceManager) Subject() SubjectService           { return m.subject }
func (m *serviceManager) StudyLog() StudyLogService         { return m.studyLog }
func (m *serviceManager) Assignment() AssignmentService     { return m.assignment }
func (m *serviceManager) Grade() GradeService               { return m.grade }
func (m *serviceManager) Goal() GoalService                 { return m.goal }
func (m *serviceManager) Reflection() ReflectionService     { return m.reflection }
func (m *serviceManager) Statistics() StatisticsService     { return m.statistics }
func (m *serviceManager) Report() ReportService             { return m.report }
func (m *serviceManager) Dashboard() DashboardService       { return m.dashboard }
func (m *serviceManager) Notification() NotificationService { return m.notification }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
