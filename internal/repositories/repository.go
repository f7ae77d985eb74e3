package repositories

import "context"

// Repository aggregates all entity repositories behind one handle so
// services take a single dependency.
type Repository interface {
	User() UserRepository
	Subject() SubjectRepository
	StudyLog() StudyLogRepository
	Assignment() AssignmentRepository
	Grade() GradeRepository
	Report() ReportRepository
	StudyGoal() StudyGoalRepository
	Reflection() ReflectionRepository
	Notification() NotificationRepository

	// WithTransaction runs fn against a Repository bound to one database
	// transaction; fn returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
}
