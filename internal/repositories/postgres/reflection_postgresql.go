package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReflectionPostgreSQL struct {
	db *gorm.DB
}

func NewReflectionPostgreSQL(db *gorm.DB) repositories.ReflectionRepository {
	return &ReflectionPostgreSQL{db: db}
}

// Upsert relies on the unique (student_id, reflection_date) index; writing
// twice on the same date updates content and rating in place.
func (r *ReflectionPostgreSQL) Upsert(ctx context.Context, reflection *models.DailyReflection) error {
	reflection.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "reflection_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"content", "self_rating", "mood", "updated_at"}),
	}).Create(reflection).Error
	if err != nil {
		return fmt.Errorf("failed to upsert reflection: %w", err)
	}
	return nil
}

func (r *ReflectionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.DailyReflection, error) {
	var reflection models.DailyReflection
	if err := r.db.WithContext(ctx).First(&reflection, id).Error; err != nil {
		return nil, err
	}
	return &reflection, nil
}

func (r *ReflectionPostgreSQL) GetByStudent(ctx context.Context, studentID string) ([]*models.DailyReflection, error) {
	var reflections []*models.DailyReflection
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("reflection_date DESC").
		Find(&reflections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reflections: %w", err)
	}
	return reflections, nil
}

func (r *ReflectionPostgreSQL) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.DailyReflection, error) {
	var reflection models.DailyReflection
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND reflection_date = ?", studentID, date.Format("2006-01-02")).
		First(&reflection).Error
	if err != nil {
		return nil, err
	}
	return &reflection, nil
}

func (r *ReflectionPostgreSQL) GetByStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.DailyReflection, error) {
	var reflections []*models.DailyReflection
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND reflection_date >= ? AND reflection_date <= ?",
			studentID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("reflection_date DESC").
		Find(&reflections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reflections in window: %w", err)
	}
	return reflections, nil
}

func (r *ReflectionPostgreSQL) GetRecent(ctx context.Context, limit int) ([]*models.DailyReflection, error) {
	var reflections []*models.DailyReflection
	err := r.db.WithContext(ctx).
		Order("reflection_date DESC").
		Limit(limit).
		Find(&reflections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reflections: %w", err)
	}
	return reflections, nil
}

func (r *ReflectionPostgreSQL) ListAll(ctx context.Context) ([]*models.DailyReflection, error) {
	var reflections []*models.DailyReflection
	if err := r.db.WithContext(ctx).Order("reflection_date DESC").Find(&reflections).Error; err != nil {
		return nil, fmt.Errorf("failed to list all reflections: %w", err)
	}
	return reflections, nil
}

func (r *ReflectionPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.DailyReflection{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete reflection: %w", err)
	}
	return nil
}

func (r *ReflectionPostgreSQL) IsOwner(ctx context.Context, id uint, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DailyReflection{}).
		Where("id = ? AND student_id = ?", id, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check reflection ownership: %w", err)
	}
	return count > 0, nil
}

func (r *ReflectionPostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.DailyReflection{}).Error; err != nil {
		return fmt.Errorf("failed to delete reflections for student: %w", err)
	}
	return nil
}
