package postgres

import (
	"context"

	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB

	user         repositories.UserRepository
	subject      repositories.SubjectRepository
	studyLog     repositories.StudyLogRepository
	assignment   repositories.AssignmentRepository
	grade        repositories.GradeRepository
	report       repositories.ReportRepository
	studyGoal    repositories.StudyGoalRepository
	reflection   repositories.ReflectionRepository
	notification repositories.NotificationRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:           db,
		user:         NewUserPostgreSQL(db),
		subject:      NewSubjectPostgreSQL(db),
		studyLog:     NewStudyLogPostgreSQL(db),
		assignment:   NewAssignmentPostgreSQL(db),
		grade:        NewGradePostgreSQL(db),
		report:       NewReportPostgreSQL(db),
		studyGoal:    NewStudyGoalPostgreSQL(db),
		reflection:   NewReflectionPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository                 { return r.user }
func (r *repository) Subject() repositories.SubjectRepository           { return r.subject }
func (r *repository) StudyLog() repositories.StudyLogRepository         { return r.studyLog }
func (r *repository) Assignment() repositories.AssignmentRepository     { return r.assignment }
func (r *repository) Grade() repositories.GradeRepository               { return r.grade }
func (r *repository) Report() repositories.ReportRepository             { return r.report }
func (r *repository) StudyGoal() repositories.StudyGoalRepository       { return r.studyGoal }
func (r *repository) Reflection() repositories.ReflectionRepository     { return r.reflection }
func (r *repository) Notification() repositories.NotificationRepository { return r.notification }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
