package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type StudyLogPostgreSQL struct {
	db *gorm.DB
}

func NewStudyLogPostgreSQL(db *gorm.DB) repositories.StudyLogRepository {
	return &StudyLogPostgreSQL{db: db}
}

func (s *StudyLogPostgreSQL) Create(ctx context.Context, log *models.StudyLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create study log: %w", err)
	}
	return nil
}

func (s *StudyLogPostgreSQL) GetByID(ctx context.Context, id uint) (*models.StudyLog, error) {
	var log models.StudyLog
	err := s.db.WithContext(ctx).
		Preload("Subject").
		First(&log, id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (s *StudyLogPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.StudyLog{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete study log: %w", err)
	}
	return nil
}

func (s *StudyLogPostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.StudyLogFilters) ([]*models.StudyLog, error) {
	query := s.db.WithContext(ctx).
		Preload("Subject").
		Where("student_id = ?", studentID)

	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.From != nil {
		query = query.Where("logged_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("logged_at <= ?", *filters.To)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	order := "logged_at DESC"
	if filters.SortOrder == "asc" {
		order = "logged_at ASC"
	}

	var logs []*models.StudyLog
	if err := query.Order(order).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list study logs: %w", err)
	}
	return logs, nil
}

func (s *StudyLogPostgreSQL) GetByStudentSince(ctx context.Context, studentID string, since time.Time) ([]*models.StudyLog, error) {
	var logs []*models.StudyLog
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND logged_at >= ?", studentID, since).
		Order("logged_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list study logs since %s: %w", since.Format(time.RFC3339), err)
	}
	return logs, nil
}

func (s *StudyLogPostgreSQL) ListAll(ctx context.Context) ([]*models.StudyLog, error) {
	var logs []*models.StudyLog
	if err := s.db.WithContext(ctx).Order("logged_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list all study logs: %w", err)
	}
	return logs, nil
}

func (s *StudyLogPostgreSQL) IsOwner(ctx context.Context, id uint, studentID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.StudyLog{}).
		Where("id = ? AND student_id = ?", id, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check study log ownership: %w", err)
	}
	return count > 0, nil
}

func (s *StudyLogPostgreSQL) GetStudyTotals(ctx context.Context, studentID string, since time.Time) (*repositories.StudyTotals, error) {
	var rows []struct {
		SubjectID uint
		Minutes   int
		Count     int
		Last      *time.Time
	}
	err := s.db.WithContext(ctx).Model(&models.StudyLog{}).
		Select("subject_id, SUM(duration_minutes) AS minutes, COUNT(*) AS count, MAX(logged_at) AS last").
		Where("student_id = ? AND logged_at >= ?", studentID, since).
		Group("subject_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate study totals: %w", err)
	}

	totals := &repositories.StudyTotals{BySubject: make(map[uint]int)}
	for _, row := range rows {
		totals.TotalMinutes += row.Minutes
		totals.LogCount += row.Count
		totals.BySubject[row.SubjectID] = row.Minutes
		if row.Last != nil && (totals.LastLoggedAt == nil || row.Last.After(*totals.LastLoggedAt)) {
			totals.LastLoggedAt = row.Last
		}
	}
	return totals, nil
}

func (s *StudyLogPostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	if err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.StudyLog{}).Error; err != nil {
		return fmt.Errorf("failed to delete study logs for student: %w", err)
	}
	return nil
}
