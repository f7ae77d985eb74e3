package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepository implements repositories.Repository with pluggable
// per-entity fakes so each test wires only what it touches.
type fakeRepository struct {
	user         *fakeUserRepo
	subject      *fakeSubjectRepo
	studyLog     *fakeStudyLogRepo
	assignment   *fakeAssignmentRepo
	grade        *fakeGradeRepo
	report       *fakeReportRepo
	studyGoal    *fakeStudyGoalRepo
	reflection   *fakeReflectionRepo
	notification *fakeNotificationRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		user:         &fakeUserRepo{},
		subject:      &fakeSubjectRepo{},
		studyLog:     &fakeStudyLogRepo{},
		assignment:   &fakeAssignmentRepo{},
		grade:        &fakeGradeRepo{},
		report:       &fakeReportRepo{},
		studyGoal:    &fakeStudyGoalRepo{},
		reflection:   &fakeReflectionRepo{},
		notification: &fakeNotificationRepo{},
	}
}

func (f *fakeRepository) User() repositories.UserRepository                 { return f.user }
func (f *fakeRepository) Subject() repositories.SubjectRepository           { return f.subject }
func (f *fakeRepository) StudyLog() repositories.StudyLogRepository         { return f.studyLog }
func (f *fakeRepository) Assignment() repositories.AssignmentRepository     { return f.assignment }
func (f *fakeRepository) Grade() repositories.GradeRepository               { return f.grade }
func (f *fakeRepository) Report() repositories.ReportRepository             { return f.report }
func (f *fakeRepository) StudyGoal() repositories.StudyGoalRepository       { return f.studyGoal }
func (f *fakeRepository) Reflection() repositories.ReflectionRepository     { return f.reflection }
func (f *fakeRepository) Notification() repositories.NotificationRepository { return f.notification }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

// ===== USER =====

type fakeUserRepo struct {
	users     map[string]*models.User
	created   []*models.User
	deleted   []string
	passwords map[string]string
	unlinked  []string
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.users == nil {
		f.users = make(map[string]*models.User)
	}
	f.users[user.ID] = user
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	if f.passwords == nil {
		f.passwords = make(map[string]string)
	}
	f.passwords[id] = passwordHash
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.AccountFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) GetStudents(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, user := range f.users {
		if user.IsStudent() {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetParentsOfChild(ctx context.Context, childID string) ([]*models.User, error) {
	var out []*models.User
	for _, user := range f.users {
		if user.Role == models.RoleParent && user.ChildID != nil && *user.ChildID == childID {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Search(ctx context.Context, query string) ([]*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) UnlinkChild(ctx context.Context, childID string) error {
	f.unlinked = append(f.unlinked, childID)
	for _, user := range f.users {
		if user.ChildID != nil && *user.ChildID == childID {
			user.ChildID = nil
		}
	}
	return nil
}

// ===== SUBJECT =====

type fakeSubjectRepo struct {
	subjects map[uint]*models.Subject
	deleted  []uint
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if f.subjects == nil {
		f.subjects = make(map[uint]*models.Subject)
	}
	if subject.ID == 0 {
		subject.ID = uint(len(f.subjects) + 1)
	}
	f.subjects[subject.ID] = subject
	return nil
}

func (f *fakeSubjectRepo) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	if subject, ok := f.subjects[id]; ok {
		return subject, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubjectRepo) List(ctx context.Context) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, subject := range f.subjects {
		out = append(out, subject)
	}
	return out, nil
}

func (f *fakeSubjectRepo) Delete(ctx context.Context, id uint) error {
	delete(f.subjects, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSubjectRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, subject := range f.subjects {
		if subject.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// ===== STUDY LOG =====

type fakeStudyLogRepo struct {
	logs     []*models.StudyLog
	sinceErr error
	deleted  []uint
}

func (f *fakeStudyLogRepo) Create(ctx context.Context, log *models.StudyLog) error {
	if log.ID == 0 {
		log.ID = uint(len(f.logs) + 1)
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeStudyLogRepo) GetByID(ctx context.Context, id uint) (*models.StudyLog, error) {
	for _, log := range f.logs {
		if log.ID == id {
			return log, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudyLogRepo) Delete(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStudyLogRepo) GetByStudent(ctx context.Context, studentID string, filters repositories.StudyLogFilters) ([]*models.StudyLog, error) {
	var out []*models.StudyLog
	for _, log := range f.logs {
		if log.StudentID == studentID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (f *fakeStudyLogRepo) GetByStudentSince(ctx context.Context, studentID string, since time.Time) ([]*models.StudyLog, error) {
	if f.sinceErr != nil {
		return nil, f.sinceErr
	}
	var out []*models.StudyLog
	for _, log := range f.logs {
		if log.StudentID == studentID && !log.LoggedAt.Before(since) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (f *fakeStudyLogRepo) ListAll(ctx context.Context) ([]*models.StudyLog, error) {
	return f.logs, nil
}

func (f *fakeStudyLogRepo) IsOwner(ctx context.Context, id uint, studentID string) (bool, error) {
	for _, log := range f.logs {
		if log.ID == id {
			return log.StudentID == studentID, nil
		}
	}
	return false, nil
}

func (f *fakeStudyLogRepo) GetStudyTotals(ctx context.Context, studentID string, since time.Time) (*repositories.StudyTotals, error) {
	totals := &repositories.StudyTotals{BySubject: make(map[uint]int)}
	for _, log := range f.logs {
		if log.StudentID != studentID {
			continue
		}
		totals.TotalMinutes += log.DurationMinutes
		totals.LogCount++
		totals.BySubject[log.SubjectID] += log.DurationMinutes
	}
	return totals, nil
}

func (f *fakeStudyLogRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return nil
}

// ===== ASSIGNMENT =====

type fakeAssignmentRepo struct {
	assignments []*models.Assignment
	updated     []*models.Assignment
	deleted     []uint
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == 0 {
		assignment.ID = uint(len(f.assignments) + 1)
	}
	f.assignments = append(f.assignments, assignment)
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	f.updated = append(f.updated, assignment)
	return nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAssignmentRepo) GetByStudent(ctx context.Context, studentID string, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range f.assignments {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) GetByStudentDueBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range f.assignments {
		if a.StudentID == studentID && !a.DueDate.Before(from) && !a.DueDate.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListAll(ctx context.Context) ([]*models.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeAssignmentRepo) GetCounts(ctx context.Context, studentID string) (*repositories.AssignmentCounts, error) {
	counts := &repositories.AssignmentCounts{}
	for _, a := range f.assignments {
		if a.StudentID != studentID {
			continue
		}
		counts.Total++
		switch a.Status {
		case models.AssignmentCompleted:
			counts.Completed++
		case models.AssignmentLate:
			counts.Late++
		default:
			counts.Pending++
		}
	}
	return counts, nil
}

func (f *fakeAssignmentRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return nil
}

// ===== GRADE =====

type fakeGradeRepo struct {
	grades  []*models.Grade
	deleted []uint
}

func (f *fakeGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == 0 {
		grade.ID = uint(len(f.grades) + 1)
	}
	f.grades = append(f.grades, grade)
	return nil
}

func (f *fakeGradeRepo) GetByID(ctx context.Context, id uint) (*models.Grade, error) {
	for _, g := range f.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGradeRepo) Delete(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGradeRepo) GetByStudent(ctx context.Context, studentID string, filters repositories.GradeFilters) ([]*models.Grade, error) {
	var out []*models.Grade
	for _, g := range f.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGradeRepo) GetByStudentTakenBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.Grade, error) {
	var out []*models.Grade
	for _, g := range f.grades {
		if g.StudentID == studentID && !g.TakenAt.Before(from) && !g.TakenAt.After(to) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGradeRepo) ListAll(ctx context.Context) ([]*models.Grade, error) {
	return f.grades, nil
}

func (f *fakeGradeRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return nil
}

// ===== REPORT =====

type fakeReportRepo struct {
	reports []*models.Report
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	if report.ID == 0 {
		report.ID = uint(len(f.reports) + 1)
	}
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) GetByStudent(ctx context.Context, studentID string, limit int) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range f.reports {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) GetLatest(ctx context.Context, studentID string) (*models.Report, error) {
	var latest *models.Report
	for _, r := range f.reports {
		if r.StudentID == studentID {
			latest = r
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (f *fakeReportRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return nil
}

// ===== STUDY GOAL =====

type fakeStudyGoalRepo struct {
	goals   []*models.StudyGoal
	deleted []uint
}

func (f *fakeStudyGoalRepo) Upsert(ctx context.Context, goal *models.StudyGoal) error {
	for _, existing := range f.goals {
		if existing.StudentID == goal.StudentID &&
			existing.SubjectID == goal.SubjectID &&
			existing.Period == goal.Period {
			existing.TargetMinutes = goal.TargetMinutes
			goal.ID = existing.ID
			return nil
		}
	}
	if goal.ID == 0 {
		goal.ID = uint(len(f.goals) + 1)
	}
	f.goals = append(f.goals, goal)
	return nil
}

func (f *fakeStudyGoalRepo) GetByID(ctx context.Context, id uint) (*models.StudyGoal, error) {
	for _, g := range f.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudyGoalRepo) GetByStudent(ctx context.Context, studentID string) ([]*models.StudyGoal, error) {
	var out []*models.StudyGoal
	for _, g := range f.goals {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStudyGoalRepo) ListAll(ctx context.Context) ([]*models.StudyGoal, error) {
	return f.goals, nil
}

func (f *fakeStudyGoalRepo) Delete(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStudyGoalRepo) IsOwner(ctx context.Context, id uint, studentID string) (bool, error) {
	for _, g := range f.goals {
		if g.ID == id {
			return g.StudentID == studentID, nil
		}
	}
	return false, nil
}

func (f *fakeStudyGoalRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return nil
}

// ===== REFLECTION =====

type fakeReflectionRepo struct {
	reflections []*models.DailyReflection
	deleted     []uint
}

func (f *fakeReflectionRepo) Upsert(ctx context.Context, reflection *models.DailyReflection) error {
	day := reflection.ReflectionDate.Format("2006-01-02")
	for _, existing := range f.reflections {
		if existing.StudentID == reflection.StudentID &&
			existing.ReflectionDate.Format("2006-01-02") == day {
			existing.Content = reflection.Content
			existing.SelfRating = reflection.SelfRating
			existing.Mood = reflection.Mood
			reflection.ID = existing.ID
			return nil
		}
	}
	if reflection.ID == 0 {
		reflection.ID = uint(len(f.reflections) + 1)
	}
	f.reflections = append(f.reflections, reflection)
	return nil
}

func (f *fakeReflectionRepo) GetByID(ctx context.Context, id uint) (*models.DailyReflection, error) {
	for _, r := range f.reflections {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReflectionRepo) GetByStudent(ctx context.Context, studentID string) ([]*models.DailyReflection, error) {
	var out []*models.DailyReflection
	for _, r := range f.reflections {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReflectionRepo) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.DailyReflection, error) {
	day := date.UTC().Format("2006-01-02")
	for _, r := range f.reflections {
		if r.StudentID == studentID && r.ReflectionDate.Format("2006-01-02") == day {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReflectionRepo) GetByStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.DailyReflection, error) {
	var out []*models.DailyReflection
	for _, r := range f.reflections {
		if r.StudentID == studentID && !r.ReflectionDate.Before(from) && !r.ReflectionDate.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReflectionRepo) GetRecent(ctx context.Context, limit int) ([]*models.DailyReflection, error) {
	return f.reflections, nil
}

func (f *fakeReflectionRepo) ListAll(ctx context.Context) ([]*models.DailyReflection, error) {
	return f.reflections, nil
}

func (f *fakeReflectionRepo) Delete(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeReflectionRepo) IsOwner(ctx context.Context, id uint, studentID string) (bool, error) {
	for _, r := range f.reflections {
		if r.ID == id {
			return r.StudentID == studentID, nil
		}
	}
	return false, nil
}

func (f *fakeReflectionRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return nil
}

// ===== NOTIFICATION =====

type fakeNotificationRepo struct {
	notifications []*models.Notification
	markedRead    []uint
	markedAllFor  []string
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == 0 {
		notification.ID = uint(len(f.notifications) + 1)
	}
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id uint) error {
	f.markedRead = append(f.markedRead, id)
	for _, n := range f.notifications {
		if n.ID == id {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	f.markedAllFor = append(f.markedAllFor, userID)
	return nil
}

func (f *fakeNotificationRepo) DeleteByUser(ctx context.Context, userID string) error {
	return nil
}
